package techrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/cache"
	"gojobs/internal/pkg/logger"
)

// techCacheTTL é o tempo de vida das entradas do catálogo no Redis.
// O catálogo é estático (carregado por migration), então um TTL longo é seguro.
const techCacheTTL = 1 * time.Hour

// TechRepository implementa o acesso ao catálogo de tecnologias e à tabela
// de vínculo developers_techs sobre o PostgreSQL, com cache de leitura no Redis.
type TechRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTechRepository cria uma nova instância do TechRepository, injetando DB e cache.
func NewTechRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *TechRepository {
	return &TechRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// FindByName resolve um nome de tecnologia para a entrada do catálogo.
// Match exato e sensível a maiúsculas, o mesmo caminho para criação e atualização.
func (r *TechRepository) FindByName(ctx context.Context, name string) (domain.Tech, error) {
	r.logger.Debug("Resolvendo tecnologia no repositório.", map[string]interface{}{"name": name})

	cacheKey := "tech:name:" + name

	// 1. Tenta o cache primeiro (read-through). Falha de cache não é fatal.
	if cachedID, err := r.Cache.Get(ctx, cacheKey); err == nil && cachedID != "" {
		r.logger.Debug("Tecnologia resolvida via cache.", map[string]interface{}{"name": name, "id": cachedID})
		return domain.Tech{ID: cachedID, Name: name}, nil
	} else if err != nil && err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao consultar cache de tecnologias, seguindo para o DB.", map[string]interface{}{"error": err.Error()})
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var tech domain.Tech
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT id, name FROM techs WHERE name = $1`, name).
		Scan(&tech.ID, &tech.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Tech{}, apperror.NewNotFoundError(fmt.Sprintf("Tecnologia '%s' não encontrada no catálogo.", name))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar tecnologia no DB.", err)
		return domain.Tech{}, apperror.NewDBError("Falha ao buscar tecnologia", err)
	}

	// 2. Popula o cache para as próximas resoluções.
	if err := r.Cache.Set(ctx, cacheKey, tech.ID, techCacheTTL); err != nil {
		r.logger.Warn("Falha ao popular cache de tecnologias.", map[string]interface{}{"error": err.Error()})
	}

	return tech, nil
}

// ReplaceLinks substitui o conjunto de vínculos de um desenvolvedor pelo
// conjunto informado, em uma única transação (delete + insert), para que
// nunca exista uma janela observável de conjunto vazio.
func (r *TechRepository) ReplaceLinks(ctx context.Context, developerID string, techIDs []string) error {
	r.logger.Debug("Iniciando ReplaceLinks no repositório.", map[string]interface{}{
		"developer_id": developerID,
		"total_techs":  len(techIDs),
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação para substituição de vínculos.", err)
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM developers_techs WHERE developer_id = $1`, developerID); err != nil {
		r.logger.Error("Falha ao remover vínculos existentes do desenvolvedor.", err)
		return apperror.NewDBError("Falha ao remover vínculos de tecnologia", err)
	}

	insertSQL := `INSERT INTO developers_techs (id, developer_id, tech_id) VALUES ($1, $2, $3)`
	for _, techID := range techIDs {
		if _, err := tx.ExecContext(ctxTimeout, insertSQL, uuid.NewString(), developerID, techID); err != nil {
			r.logger.Error("Falha ao inserir vínculo de tecnologia.", err)
			return apperror.NewDBError("Falha ao inserir vínculo de tecnologia", err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao confirmar transação de vínculos.", err)
		return apperror.NewDBError("Falha ao confirmar transação de vínculos", err)
	}

	r.logger.Info("Vínculos de tecnologia substituídos com sucesso.", map[string]interface{}{
		"developer_id": developerID,
		"total_techs":  len(techIDs),
	})
	return nil
}

// ListByDeveloper devolve as tecnologias vinculadas a um desenvolvedor.
// Lista vazia (não erro) quando não há vínculos; a ordem não é garantida.
func (r *TechRepository) ListByDeveloper(ctx context.Context, developerID string) ([]domain.Tech, error) {
	r.logger.Debug("Iniciando ListByDeveloper no repositório.", map[string]interface{}{"developer_id": developerID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT t.id, t.name
        FROM techs t
        JOIN developers_techs dt ON dt.tech_id = t.id
        WHERE dt.developer_id = $1`

	rows, err := r.DB.QueryContext(ctxTimeout, query, developerID)
	if err != nil {
		r.logger.Error("Falha ao executar ListByDeveloper.", err)
		return nil, apperror.NewDBError("Falha ao buscar tecnologias do desenvolvedor", err)
	}
	defer rows.Close()

	var techs []domain.Tech
	for rows.Next() {
		var tech domain.Tech
		if err := rows.Scan(&tech.ID, &tech.Name); err != nil {
			r.logger.Error("Falha ao mapear tecnologia na iteração de ListByDeveloper.", err)
			return nil, apperror.NewDBError("Falha ao mapear tecnologias do DB", err)
		}
		techs = append(techs, tech)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de tecnologias.", err)
		return nil, apperror.NewDBError("Erro após iteração de tecnologias", err)
	}

	return techs, nil
}
