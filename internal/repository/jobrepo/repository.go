package jobrepo

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
	pgNotNullViolation          = "23502"
	pgInvalidTextRepresentation = "22P02"
)

// jobColumns é a lista de colunas usada em todas as consultas de job.
const jobColumns = `id, name, description, price, difficulty_level, expiration_date,
        progress, contractor_id, developer_id, created_at, updated_at`

// JobRepository implementa a persistência de jobs sobre o PostgreSQL.
type JobRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewJobRepository cria uma nova instância do JobRepository, injetando o DB.
func NewJobRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *JobRepository {
	return &JobRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// isInvalidUUID informa se o erro é um 22P02 do PostgreSQL, ou seja, um ID
// que nem parseia como uuid. Para a API, esse ID equivale a um job inexistente.
func isInvalidUUID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgInvalidTextRepresentation
}

// scanJob mapeia uma linha de resultado para a struct Job.
func scanJob(row interface{ Scan(dest ...interface{}) error }, job *domain.Job) error {
	return row.Scan(
		&job.ID, &job.Name, &job.Description, &job.Price, &job.DifficultyLevel,
		&job.ExpirationDate, &job.Progress, &job.ContractorID, &job.DeveloperID,
		&job.CreatedAt, &job.UpdatedAt,
	)
}

// Create insere um novo job no banco de dados.
func (r *JobRepository) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	r.logger.Debug("Iniciando Create de job no repositório.", map[string]interface{}{"name": job.Name, "contractor_id": job.ContractorID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	job.ID = uuid.NewString()
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `
        INSERT INTO jobs (id, name, description, price, difficulty_level, expiration_date,
                          progress, contractor_id, developer_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		job.ID, job.Name, job.Description, job.Price, job.DifficultyLevel,
		job.ExpirationDate, job.Progress, job.ContractorID, job.DeveloperID,
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir job no DB.", err)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgNotNullViolation {
			return domain.Job{}, apperror.NewValidationError("Job deve ser criado com name, description, price, difficulty_level e expiration_date.")
		}
		return domain.Job{}, apperror.NewDBError("Falha ao criar job", err)
	}

	r.logger.Info("Job criado com sucesso.", map[string]interface{}{"id": job.ID, "contractor_id": job.ContractorID})
	return job, nil
}

// FindByID busca um job pelo ID.
func (r *JobRepository) FindByID(ctx context.Context, id string) (domain.Job, error) {
	r.logger.Debug("Iniciando FindByID de job no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var job domain.Job
	err := scanJob(r.DB.QueryRowContext(ctxTimeout, query, id), &job)
	if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
		r.logger.Info("Job não encontrado.", map[string]interface{}{"id": id})
		return domain.Job{}, apperror.NewNotFoundError(fmt.Sprintf("Job com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar job no DB.", err)
		return domain.Job{}, apperror.NewDBError("Falha ao buscar job", err)
	}

	return job, nil
}

// Update persiste o estado completo de um job existente.
func (r *JobRepository) Update(ctx context.Context, job domain.Job) (domain.Job, error) {
	r.logger.Debug("Iniciando Update de job no repositório.", map[string]interface{}{"id": job.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	job.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE jobs
        SET name = $1, description = $2, price = $3, difficulty_level = $4,
            expiration_date = $5, progress = $6, developer_id = $7, updated_at = $8
        WHERE id = $9
        RETURNING ` + jobColumns

	err := scanJob(r.DB.QueryRowContext(ctxTimeout, query,
		job.Name, job.Description, job.Price, job.DifficultyLevel,
		job.ExpirationDate, job.Progress, job.DeveloperID, job.UpdatedAt, job.ID,
	), &job)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Job não encontrado para atualização.", map[string]interface{}{"id": job.ID})
		return domain.Job{}, apperror.NewNotFoundError(fmt.Sprintf("Job com ID %s não encontrado para atualização.", job.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar job no DB.", err)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgNotNullViolation {
			return domain.Job{}, apperror.NewValidationError("Job não pode ficar sem name, description, price, difficulty_level ou expiration_date.")
		}
		return domain.Job{}, apperror.NewDBError("Falha ao atualizar job", err)
	}

	r.logger.Info("Job atualizado com sucesso.", map[string]interface{}{"id": job.ID})
	return job, nil
}

// Delete remove um job pelo ID.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de job no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar job do DB.", err)
		return apperror.NewDBError("Falha ao deletar job", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de job.", err)
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if rowsAffected == 0 {
		r.logger.Info("Job não encontrado para exclusão.", map[string]interface{}{"id": id})
		return apperror.NewNotFoundError(fmt.Sprintf("Job com ID %s não encontrado para exclusão.", id))
	}

	r.logger.Info("Job deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// FindOpen busca todos os jobs abertos (sem desenvolvedor atribuído).
func (r *JobRepository) FindOpen(ctx context.Context) ([]domain.Job, error) {
	r.logger.Debug("Iniciando FindOpen de jobs no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE developer_id IS NULL ORDER BY created_at`

	return r.queryJobs(ctxTimeout, query)
}

// FindByContractor busca os jobs de um contratante com paginação e filtro
// opcional de progresso (incluindo o filtro de progresso nulo).
func (r *JobRepository) FindByContractor(ctx context.Context, contractorID string, filter domain.ProgressFilter, page, perPage int) ([]domain.Job, error) {
	r.logger.Debug("Iniciando FindByContractor no repositório.", map[string]interface{}{
		"contractor_id": contractorID, "page": page, "per_page": perPage,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	base := `SELECT ` + jobColumns + ` FROM jobs WHERE contractor_id = $1`
	args := []interface{}{contractorID}

	switch {
	case filter.Set && filter.Null:
		base += ` AND progress IS NULL`
	case filter.Set:
		base += ` AND progress = $2`
		args = append(args, filter.Value)
	}

	base += fmt.Sprintf(` ORDER BY created_at LIMIT %d OFFSET %d`, perPage, (page-1)*perPage)

	return r.queryJobs(ctxTimeout, base, args...)
}

// FindByDeveloper busca os jobs atribuídos a um desenvolvedor com paginação
// e filtro opcional de progresso.
func (r *JobRepository) FindByDeveloper(ctx context.Context, developerID string, filter domain.ProgressFilter, page, perPage int) ([]domain.Job, error) {
	r.logger.Debug("Iniciando FindByDeveloper no repositório.", map[string]interface{}{
		"developer_id": developerID, "page": page, "per_page": perPage,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	base := `SELECT ` + jobColumns + ` FROM jobs WHERE developer_id = $1`
	args := []interface{}{developerID}

	if filter.Set {
		base += ` AND progress = $2`
		args = append(args, filter.Value)
	}

	base += fmt.Sprintf(` ORDER BY created_at LIMIT %d OFFSET %d`, perPage, (page-1)*perPage)

	return r.queryJobs(ctxTimeout, base, args...)
}

// SearchOpenByKeyword busca jobs abertos cuja descrição contém a palavra-chave
// (substring, sem distinção de maiúsculas, via ILIKE).
func (r *JobRepository) SearchOpenByKeyword(ctx context.Context, keyword string) ([]domain.Job, error) {
	r.logger.Debug("Iniciando SearchOpenByKeyword no repositório.", map[string]interface{}{"keyword": keyword})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + jobColumns + ` FROM jobs
        WHERE description ILIKE $1 AND developer_id IS NULL
        ORDER BY created_at`

	return r.queryJobs(ctxTimeout, query, "%"+keyword+"%")
}

// queryJobs executa uma consulta que devolve múltiplos jobs e mapeia o resultado.
func (r *JobRepository) queryJobs(ctx context.Context, query string, args ...interface{}) ([]domain.Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar consulta de jobs.", err)
		return nil, apperror.NewDBError("Falha ao buscar jobs", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := scanJob(rows, &job); err != nil {
			r.logger.Error("Falha ao mapear job na iteração da consulta.", err)
			return nil, apperror.NewDBError("Falha ao mapear jobs do DB", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de jobs.", err)
		return nil, apperror.NewDBError("Erro após iteração de jobs", err)
	}

	return jobs, nil
}
