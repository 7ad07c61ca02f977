package jobservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
)

// JobRepository define o contrato que o Serviço de Jobs espera da camada de Persistência.
type JobRepository interface {
	Create(ctx context.Context, job domain.Job) (domain.Job, error)
	FindByID(ctx context.Context, id string) (domain.Job, error)
	Update(ctx context.Context, job domain.Job) (domain.Job, error)
	Delete(ctx context.Context, id string) error
	FindOpen(ctx context.Context) ([]domain.Job, error)
	FindByContractor(ctx context.Context, contractorID string, filter domain.ProgressFilter, page, perPage int) ([]domain.Job, error)
	FindByDeveloper(ctx context.Context, developerID string, filter domain.ProgressFilter, page, perPage int) ([]domain.Job, error)
	SearchOpenByKeyword(ctx context.Context, keyword string) ([]domain.Job, error)
}

// DeveloperReader resolve o email de desenvolvedor enviado na atribuição de um job.
type DeveloperReader interface {
	FindByEmail(ctx context.Context, email string) (domain.Developer, error)
}

// Valores padrão de paginação das listagens de jobs.
const (
	DefaultPage    = 1
	DefaultPerPage = 5
)

// Service implementa o ciclo de vida do job: criação, atribuição, atualização
// gated por posse, exclusão, listagens e busca por palavra-chave.
type Service struct {
	repo       JobRepository
	developers DeveloperReader
	logger     logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Jobs.
func NewService(repo JobRepository, developers DeveloperReader, logger logger.Logger) *Service {
	return &Service{repo: repo, developers: developers, logger: logger}
}

// Create cria um novo job para o contratante autenticado. O contractor_id é
// sempre injetado das claims, nunca aceito do payload.
func (s *Service) Create(ctx context.Context, contractorID string, creation domain.JobCreation) (domain.Job, error) {
	s.logger.Debug("Iniciando criação de job no serviço.", map[string]interface{}{"contractor_id": contractorID, "name": creation.Name})

	if creation.Name == "" || creation.Description == "" || creation.Price <= 0 ||
		creation.DifficultyLevel == "" || creation.ExpirationDate == "" {
		return domain.Job{}, apperror.NewValidationError("Job deve ser criado com name, description, price, difficulty_level e expiration_date.")
	}

	expirationDate, err := parseExpirationDate(creation.ExpirationDate)
	if err != nil {
		return domain.Job{}, err
	}

	newJob := domain.Job{
		Name:            creation.Name,
		Description:     creation.Description,
		Price:           creation.Price,
		DifficultyLevel: creation.DifficultyLevel,
		ExpirationDate:  expirationDate,
		ContractorID:    contractorID,
		// Progress e DeveloperID começam nulos: o job nasce aberto.
	}

	created, err := s.repo.Create(ctx, newJob)
	if err != nil {
		s.logger.Error("Falha ao criar job no repositório.", err)
		return domain.Job{}, err
	}

	s.logger.Info("Job criado com sucesso.", map[string]interface{}{"id": created.ID, "contractor_id": contractorID})
	return created, nil
}

// GetOpen é a consulta pública de um job por ID. Jobs que já têm
// desenvolvedor atribuído não são mais ofertados por este caminho.
func (s *Service) GetOpen(ctx context.Context, id string) (domain.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}

	if job.IsAssigned() {
		s.logger.Debug("Consulta pública a job já atribuído.", map[string]interface{}{"id": id})
		return domain.Job{}, apperror.NewAlreadyAssignedError("Este job já tem um desenvolvedor atribuído a ele.")
	}

	return job, nil
}

// GetAuthenticated busca um job visível apenas para o contratante dono ou
// para o desenvolvedor atribuído.
func (s *Service) GetAuthenticated(ctx context.Context, id string, actor domain.Actor) (domain.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}

	if actor.Role == domain.RoleContractor && job.ContractorID == actor.ID {
		return job, nil
	}
	if actor.Role == domain.RoleDeveloper && job.DeveloperID != nil && *job.DeveloperID == actor.ID {
		return job, nil
	}

	return domain.Job{}, apperror.NewForbiddenError("Apenas o contratante que criou este job ou o desenvolvedor atribuído a ele podem ver suas informações.")
}

// Update aplica uma atualização parcial a um job, apenas pelo contratante dono.
// Enviar um email de desenvolvedor atribui o job e transiciona o progresso
// para "ongoing" de forma determinística.
func (s *Service) Update(ctx context.Context, id string, actor domain.Actor, update domain.JobUpdate) (domain.Job, error) {
	s.logger.Debug("Iniciando atualização de job no serviço.", map[string]interface{}{"id": id, "actor_id": actor.ID})

	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}

	if job.ContractorID != actor.ID {
		s.logger.Warn("Tentativa de atualização de job por não-dono.", map[string]interface{}{"id": id, "actor_id": actor.ID})
		return domain.Job{}, apperror.NewForbiddenError("Apenas o contratante deste job pode atualizá-lo.")
	}

	if update.Empty() {
		return domain.Job{}, apperror.NewValidationError("Envie ao menos um destes campos para atualizar um job: name, description, price, difficulty_level, expiration_date, progress ou developer.")
	}

	if update.Name != nil {
		job.Name = *update.Name
	}
	if update.Description != nil {
		job.Description = *update.Description
	}
	if update.Price != nil {
		job.Price = *update.Price
	}
	if update.DifficultyLevel != nil {
		job.DifficultyLevel = *update.DifficultyLevel
	}
	if update.ExpirationDate != nil {
		expirationDate, err := parseExpirationDate(*update.ExpirationDate)
		if err != nil {
			return domain.Job{}, err
		}
		job.ExpirationDate = expirationDate
	}

	if update.Progress != nil {
		// O caminho genérico aceita qualquer valor válido de progresso, mesmo
		// "completed" sem desenvolvedor atribuído.
		if !domain.IsValidProgress(*update.Progress) {
			return domain.Job{}, apperror.NewValidationError("Os valores para progresso do job são: ongoing e completed.")
		}
		progress := *update.Progress
		job.Progress = &progress
	}

	if update.DeveloperEmail != nil {
		developer, err := s.developers.FindByEmail(ctx, *update.DeveloperEmail)
		if err != nil {
			if isNotFound(err) {
				return domain.Job{}, apperror.NewNotFoundError("Nenhum desenvolvedor encontrado com o email informado para atribuição.")
			}
			return domain.Job{}, err
		}
		// Atribuir um desenvolvedor transiciona o progresso para "ongoing".
		job.DeveloperID = &developer.ID
		progress := domain.ProgressOngoing
		job.Progress = &progress
	}

	updated, err := s.repo.Update(ctx, job)
	if err != nil {
		s.logger.Error("Falha ao atualizar job no repositório.", err)
		return domain.Job{}, err
	}

	s.logger.Info("Job atualizado com sucesso.", map[string]interface{}{"id": updated.ID, "assigned": updated.IsAssigned()})
	return updated, nil
}

// Delete remove um job, apenas pelo contratante dono.
func (s *Service) Delete(ctx context.Context, id string, actor domain.Actor) error {
	s.logger.Debug("Iniciando exclusão de job no serviço.", map[string]interface{}{"id": id, "actor_id": actor.ID})

	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if job.ContractorID != actor.ID {
		s.logger.Warn("Tentativa de exclusão de job por não-dono.", map[string]interface{}{"id": id, "actor_id": actor.ID})
		return apperror.NewForbiddenError("Você não tem permissão para excluir este job.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao excluir job no repositório.", err)
		return err
	}

	s.logger.Info("Job excluído com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// ListOpen devolve a listagem pública de jobs abertos (sem desenvolvedor).
func (s *Service) ListOpen(ctx context.Context) ([]domain.Job, error) {
	return s.repo.FindOpen(ctx)
}

// ListByContractor devolve, paginados, os jobs do contratante autenticado,
// com filtro opcional de progresso ("none" filtra progresso nulo).
func (s *Service) ListByContractor(ctx context.Context, actor domain.Actor, progress string, page, perPage int) ([]domain.Job, error) {
	filter, err := parseProgressFilter(progress, true)
	if err != nil {
		return nil, err
	}

	page, perPage = normalizePagination(page, perPage)
	return s.repo.FindByContractor(ctx, actor.ID, filter, page, perPage)
}

// ListByDeveloper devolve, paginados, os jobs atribuídos ao desenvolvedor
// autenticado. Filtros explícitos válidos: ongoing e completed.
func (s *Service) ListByDeveloper(ctx context.Context, actor domain.Actor, progress string, page, perPage int) ([]domain.Job, error) {
	filter, err := parseProgressFilter(progress, false)
	if err != nil {
		return nil, err
	}

	page, perPage = normalizePagination(page, perPage)
	return s.repo.FindByDeveloper(ctx, actor.ID, filter, page, perPage)
}

// SearchByTechKeyword busca jobs abertos cuja descrição contém cada palavra-chave
// (substring, sem distinção de maiúsculas). O resultado é agrupado por
// palavra-chave, sem deduplicação entre grupos: um job que casa com duas
// palavras aparece nos dois grupos. Lista vazia de palavras devolve lista
// vazia, não erro.
func (s *Service) SearchByTechKeyword(ctx context.Context, keywords []string) ([][]domain.Job, error) {
	groups := [][]domain.Job{}

	for _, keyword := range keywords {
		jobs, err := s.repo.SearchOpenByKeyword(ctx, keyword)
		if err != nil {
			return nil, err
		}
		if jobs == nil {
			jobs = []domain.Job{}
		}
		groups = append(groups, jobs)
	}

	return groups, nil
}

// parseExpirationDate aceita os dois formatos textuais da API.
func parseExpirationDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(domain.ExpirationDateLayout, value); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(domain.ExpirationDateShortLayout, value); err == nil {
		return parsed, nil
	}
	return time.Time{}, apperror.NewValidationError("A data de expiração deve estar no formato dd/mm/aaaa hh:mm.")
}

// parseProgressFilter valida o filtro de progresso das listagens.
// allowNull habilita o filtro "none" (progresso nulo), válido apenas para contratantes.
func parseProgressFilter(value string, allowNull bool) (domain.ProgressFilter, error) {
	if value == "" {
		return domain.ProgressFilter{}, nil
	}

	if allowNull && strings.EqualFold(value, "none") {
		return domain.ProgressFilter{Set: true, Null: true}, nil
	}

	if domain.IsValidProgress(value) {
		return domain.ProgressFilter{Set: true, Value: value}, nil
	}

	if allowNull {
		return domain.ProgressFilter{}, apperror.NewValidationError("Os valores para progresso do job são: none, ongoing e completed.")
	}
	return domain.ProgressFilter{}, apperror.NewValidationError("Os valores para progresso do job são: ongoing e completed.")
}

// normalizePagination aplica os valores padrão de página.
func normalizePagination(page, perPage int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return page, perPage
}

// isNotFound informa se o erro da cadeia é um NotFoundError tipado.
func isNotFound(err error) bool {
	var notFoundErr *apperror.NotFoundError
	return errors.As(err, &notFoundErr)
}
