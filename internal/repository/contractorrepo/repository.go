package contractorrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
)

// Códigos de erro do PostgreSQL traduzidos na borda do repositório.
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
)

// ContractorRepository implementa a persistência de contratantes sobre o PostgreSQL.
type ContractorRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewContractorRepository cria uma nova instância do ContractorRepository, injetando o DB.
func NewContractorRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ContractorRepository {
	return &ContractorRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// translatePGError converte violações de constraint em erros tipados do domínio.
// É o backstop para qualquer lacuna de validação na camada de serviço.
func translatePGError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return apperror.NewConflictError("Já existe um contratante com este email ou CNPJ.")
		case pgNotNullViolation:
			return apperror.NewValidationError("Contratante deve ser criado com name, email e password; CNPJ é opcional.")
		}
	}
	return nil
}

// Create insere um novo contratante no banco de dados.
func (r *ContractorRepository) Create(ctx context.Context, contractor domain.Contractor) (domain.Contractor, error) {
	r.logger.Debug("Iniciando Create de contratante no repositório.", map[string]interface{}{"email": contractor.Email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	contractor.ID = uuid.NewString()
	now := time.Now().UTC()
	contractor.CreatedAt = now
	contractor.UpdatedAt = now

	query := `
        INSERT INTO contractors (id, name, email, password_hash, cnpj, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		contractor.ID, contractor.Name, contractor.Email, contractor.PasswordHash,
		contractor.CNPJ, contractor.CreatedAt, contractor.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir contratante no DB.", err)
		if translated := translatePGError(err); translated != nil {
			return domain.Contractor{}, translated
		}
		return domain.Contractor{}, apperror.NewDBError("Falha ao criar contratante", err)
	}

	r.logger.Info("Contratante criado com sucesso.", map[string]interface{}{"id": contractor.ID, "email": contractor.Email})
	return contractor, nil
}

// FindByID busca um contratante pelo ID.
func (r *ContractorRepository) FindByID(ctx context.Context, id string) (domain.Contractor, error) {
	r.logger.Debug("Iniciando FindByID de contratante no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, email, password_hash, cnpj, created_at, updated_at
        FROM contractors
        WHERE id = $1`

	var contractor domain.Contractor
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&contractor.ID, &contractor.Name, &contractor.Email, &contractor.PasswordHash,
		&contractor.CNPJ, &contractor.CreatedAt, &contractor.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Contratante não encontrado.", map[string]interface{}{"id": id})
		return domain.Contractor{}, apperror.NewNotFoundError(fmt.Sprintf("Contratante com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar contratante no DB.", err)
		return domain.Contractor{}, apperror.NewDBError("Falha ao buscar contratante", err)
	}

	return contractor, nil
}

// FindByEmail busca um contratante pelo endereço de e-mail.
func (r *ContractorRepository) FindByEmail(ctx context.Context, email string) (domain.Contractor, error) {
	r.logger.Debug("Iniciando FindByEmail de contratante no repositório.", map[string]interface{}{"email_attempt": email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, email, password_hash, cnpj, created_at, updated_at
        FROM contractors
        WHERE email = $1`

	var contractor domain.Contractor
	err := r.DB.QueryRowContext(ctxTimeout, query, email).Scan(
		&contractor.ID, &contractor.Name, &contractor.Email, &contractor.PasswordHash,
		&contractor.CNPJ, &contractor.CreatedAt, &contractor.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Contractor{}, apperror.NewNotFoundError(fmt.Sprintf("Contratante com email '%s' não encontrado.", email))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar contratante por email no DB.", err)
		return domain.Contractor{}, apperror.NewDBError("Falha ao buscar contratante por email", err)
	}

	return contractor, nil
}

// FindByCNPJ busca um contratante pelo CNPJ (usado na checagem de unicidade global).
func (r *ContractorRepository) FindByCNPJ(ctx context.Context, cnpj string) (domain.Contractor, error) {
	r.logger.Debug("Iniciando FindByCNPJ de contratante no repositório.", map[string]interface{}{"cnpj": cnpj})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, email, password_hash, cnpj, created_at, updated_at
        FROM contractors
        WHERE cnpj = $1`

	var contractor domain.Contractor
	err := r.DB.QueryRowContext(ctxTimeout, query, cnpj).Scan(
		&contractor.ID, &contractor.Name, &contractor.Email, &contractor.PasswordHash,
		&contractor.CNPJ, &contractor.CreatedAt, &contractor.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Contractor{}, apperror.NewNotFoundError(fmt.Sprintf("Contratante com CNPJ '%s' não encontrado.", cnpj))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar contratante por CNPJ no DB.", err)
		return domain.Contractor{}, apperror.NewDBError("Falha ao buscar contratante por CNPJ", err)
	}

	return contractor, nil
}

// FindAll busca todos os contratantes (listagem pública).
func (r *ContractorRepository) FindAll(ctx context.Context) ([]domain.Contractor, error) {
	r.logger.Debug("Iniciando FindAll de contratantes no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, email, password_hash, cnpj, created_at, updated_at
        FROM contractors
        ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de contratantes.", err)
		return nil, apperror.NewDBError("Falha ao buscar contratantes", err)
	}
	defer rows.Close()

	var contractors []domain.Contractor
	for rows.Next() {
		var contractor domain.Contractor
		err := rows.Scan(
			&contractor.ID, &contractor.Name, &contractor.Email, &contractor.PasswordHash,
			&contractor.CNPJ, &contractor.CreatedAt, &contractor.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Falha ao mapear contratante na iteração de FindAll.", err)
			return nil, apperror.NewDBError("Falha ao mapear contratantes do DB", err)
		}
		contractors = append(contractors, contractor)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de contratantes.", err)
		return nil, apperror.NewDBError("Erro após iteração de contratantes", err)
	}

	r.logger.Info("FindAll de contratantes concluído.", map[string]interface{}{"total": len(contractors)})
	return contractors, nil
}

// Update atualiza um contratante existente.
func (r *ContractorRepository) Update(ctx context.Context, contractor domain.Contractor) (domain.Contractor, error) {
	r.logger.Debug("Iniciando Update de contratante no repositório.", map[string]interface{}{"id": contractor.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	contractor.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE contractors
        SET name = $1, email = $2, password_hash = $3, cnpj = $4, updated_at = $5
        WHERE id = $6
        RETURNING id, name, email, password_hash, cnpj, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		contractor.Name, contractor.Email, contractor.PasswordHash,
		contractor.CNPJ, contractor.UpdatedAt, contractor.ID,
	).Scan(
		&contractor.ID, &contractor.Name, &contractor.Email, &contractor.PasswordHash,
		&contractor.CNPJ, &contractor.CreatedAt, &contractor.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Contratante não encontrado para atualização.", map[string]interface{}{"id": contractor.ID})
		return domain.Contractor{}, apperror.NewNotFoundError(fmt.Sprintf("Contratante com ID %s não encontrado para atualização.", contractor.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar contratante no DB.", err)
		if translated := translatePGError(err); translated != nil {
			return domain.Contractor{}, translated
		}
		return domain.Contractor{}, apperror.NewDBError("Falha ao atualizar contratante", err)
	}

	r.logger.Info("Contratante atualizado com sucesso.", map[string]interface{}{"id": contractor.ID})
	return contractor, nil
}

// Delete remove um contratante pelo ID.
func (r *ContractorRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de contratante no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM contractors WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar contratante do DB.", err)
		return apperror.NewDBError("Falha ao deletar contratante", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de contratante.", err)
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		r.logger.Info("Contratante não encontrado para exclusão.", map[string]interface{}{"id": id})
		return apperror.NewNotFoundError(fmt.Sprintf("Contratante com ID %s não encontrado para exclusão.", id))
	}

	r.logger.Info("Contratante deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
