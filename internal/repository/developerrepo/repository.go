package developerrepo

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

const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
)

// DeveloperRepository implementa a persistência de desenvolvedores sobre o PostgreSQL.
type DeveloperRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewDeveloperRepository cria uma nova instância do DeveloperRepository, injetando o DB.
func NewDeveloperRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *DeveloperRepository {
	return &DeveloperRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// translatePGError converte violações de constraint em erros tipados do domínio.
func translatePGError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return apperror.NewConflictError("Já existe um desenvolvedor com este email.")
		case pgNotNullViolation:
			return apperror.NewValidationError("Desenvolvedor deve ser criado com name, email, password e birthdate.")
		}
	}
	return nil
}

// Create insere um novo desenvolvedor no banco de dados.
func (r *DeveloperRepository) Create(ctx context.Context, developer domain.Developer) (domain.Developer, error) {
	r.logger.Debug("Iniciando Create de desenvolvedor no repositório.", map[string]interface{}{"email": developer.Email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	developer.ID = uuid.NewString()
	now := time.Now().UTC()
	developer.CreatedAt = now
	developer.UpdatedAt = now

	query := `
        INSERT INTO developers (id, name, email, password_hash, birthdate, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		developer.ID, developer.Name, developer.Email, developer.PasswordHash,
		developer.Birthdate, developer.CreatedAt, developer.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir desenvolvedor no DB.", err)
		if translated := translatePGError(err); translated != nil {
			return domain.Developer{}, translated
		}
		return domain.Developer{}, apperror.NewDBError("Falha ao criar desenvolvedor", err)
	}

	r.logger.Info("Desenvolvedor criado com sucesso.", map[string]interface{}{"id": developer.ID, "email": developer.Email})
	return developer, nil
}

// FindByID busca um desenvolvedor pelo ID.
func (r *DeveloperRepository) FindByID(ctx context.Context, id string) (domain.Developer, error) {
	r.logger.Debug("Iniciando FindByID de desenvolvedor no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, email, password_hash, birthdate, created_at, updated_at
        FROM developers
        WHERE id = $1`

	var developer domain.Developer
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&developer.ID, &developer.Name, &developer.Email, &developer.PasswordHash,
		&developer.Birthdate, &developer.CreatedAt, &developer.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Desenvolvedor não encontrado.", map[string]interface{}{"id": id})
		return domain.Developer{}, apperror.NewNotFoundError(fmt.Sprintf("Desenvolvedor com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar desenvolvedor no DB.", err)
		return domain.Developer{}, apperror.NewDBError("Falha ao buscar desenvolvedor", err)
	}

	return developer, nil
}

// FindByEmail busca um desenvolvedor pelo endereço de e-mail.
func (r *DeveloperRepository) FindByEmail(ctx context.Context, email string) (domain.Developer, error) {
	r.logger.Debug("Iniciando FindByEmail de desenvolvedor no repositório.", map[string]interface{}{"email_attempt": email})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, email, password_hash, birthdate, created_at, updated_at
        FROM developers
        WHERE email = $1`

	var developer domain.Developer
	err := r.DB.QueryRowContext(ctxTimeout, query, email).Scan(
		&developer.ID, &developer.Name, &developer.Email, &developer.PasswordHash,
		&developer.Birthdate, &developer.CreatedAt, &developer.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Developer{}, apperror.NewNotFoundError(fmt.Sprintf("Desenvolvedor com email '%s' não encontrado.", email))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar desenvolvedor por email no DB.", err)
		return domain.Developer{}, apperror.NewDBError("Falha ao buscar desenvolvedor por email", err)
	}

	return developer, nil
}

// FindAll busca todos os desenvolvedores (listagem pública).
func (r *DeveloperRepository) FindAll(ctx context.Context) ([]domain.Developer, error) {
	r.logger.Debug("Iniciando FindAll de desenvolvedores no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, email, password_hash, birthdate, created_at, updated_at
        FROM developers
        ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de desenvolvedores.", err)
		return nil, apperror.NewDBError("Falha ao buscar desenvolvedores", err)
	}
	defer rows.Close()

	var developers []domain.Developer
	for rows.Next() {
		var developer domain.Developer
		err := rows.Scan(
			&developer.ID, &developer.Name, &developer.Email, &developer.PasswordHash,
			&developer.Birthdate, &developer.CreatedAt, &developer.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Falha ao mapear desenvolvedor na iteração de FindAll.", err)
			return nil, apperror.NewDBError("Falha ao mapear desenvolvedores do DB", err)
		}
		developers = append(developers, developer)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de desenvolvedores.", err)
		return nil, apperror.NewDBError("Erro após iteração de desenvolvedores", err)
	}

	r.logger.Info("FindAll de desenvolvedores concluído.", map[string]interface{}{"total": len(developers)})
	return developers, nil
}

// Update atualiza um desenvolvedor existente.
func (r *DeveloperRepository) Update(ctx context.Context, developer domain.Developer) (domain.Developer, error) {
	r.logger.Debug("Iniciando Update de desenvolvedor no repositório.", map[string]interface{}{"id": developer.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	developer.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE developers
        SET name = $1, email = $2, password_hash = $3, birthdate = $4, updated_at = $5
        WHERE id = $6
        RETURNING id, name, email, password_hash, birthdate, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		developer.Name, developer.Email, developer.PasswordHash,
		developer.Birthdate, developer.UpdatedAt, developer.ID,
	).Scan(
		&developer.ID, &developer.Name, &developer.Email, &developer.PasswordHash,
		&developer.Birthdate, &developer.CreatedAt, &developer.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Desenvolvedor não encontrado para atualização.", map[string]interface{}{"id": developer.ID})
		return domain.Developer{}, apperror.NewNotFoundError(fmt.Sprintf("Desenvolvedor com ID %s não encontrado para atualização.", developer.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar desenvolvedor no DB.", err)
		if translated := translatePGError(err); translated != nil {
			return domain.Developer{}, translated
		}
		return domain.Developer{}, apperror.NewDBError("Falha ao atualizar desenvolvedor", err)
	}

	r.logger.Info("Desenvolvedor atualizado com sucesso.", map[string]interface{}{"id": developer.ID})
	return developer, nil
}

// Delete remove um desenvolvedor pelo ID. Os vínculos de tecnologia caem em
// cascata pela foreign key.
func (r *DeveloperRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de desenvolvedor no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM developers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar desenvolvedor do DB.", err)
		return apperror.NewDBError("Falha ao deletar desenvolvedor", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de desenvolvedor.", err)
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		r.logger.Info("Desenvolvedor não encontrado para exclusão.", map[string]interface{}{"id": id})
		return apperror.NewNotFoundError(fmt.Sprintf("Desenvolvedor com ID %s não encontrado para exclusão.", id))
	}

	r.logger.Info("Desenvolvedor deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
