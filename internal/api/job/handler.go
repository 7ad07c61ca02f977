package job

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
	"gojobs/internal/pkg/middleware"
)

// JobService define o contrato que o Handler espera da camada de Serviço.
type JobService interface {
	Create(ctx context.Context, contractorID string, creation domain.JobCreation) (domain.Job, error)
	GetOpen(ctx context.Context, id string) (domain.Job, error)
	GetAuthenticated(ctx context.Context, id string, actor domain.Actor) (domain.Job, error)
	Update(ctx context.Context, id string, actor domain.Actor, update domain.JobUpdate) (domain.Job, error)
	Delete(ctx context.Context, id string, actor domain.Actor) error
	ListOpen(ctx context.Context) ([]domain.Job, error)
	ListByContractor(ctx context.Context, actor domain.Actor, progress string, page, perPage int) ([]domain.Job, error)
	ListByDeveloper(ctx context.Context, actor domain.Actor, progress string, page, perPage int) ([]domain.Job, error)
	SearchByTechKeyword(ctx context.Context, keywords []string) ([][]domain.Job, error)
}

// JobResponse é a representação de saída de um job, com a data de expiração
// no formato curto da API.
type JobResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DifficultyLevel string  `json:"difficulty_level"`
	ExpirationDate  string  `json:"expiration_date"`
	ContractorID    string  `json:"contractor_id"`
	DeveloperID     *string `json:"developer_id,omitempty"`
	Progress        *string `json:"progress,omitempty"`
}

func toResponse(j domain.Job) JobResponse {
	return JobResponse{
		ID:              j.ID,
		Name:            j.Name,
		Description:     j.Description,
		Price:           j.Price,
		DifficultyLevel: j.DifficultyLevel,
		ExpirationDate:  j.FormattedExpirationDate(),
		ContractorID:    j.ContractorID,
		DeveloperID:     j.DeveloperID,
		Progress:        j.Progress,
	}
}

func toResponseList(jobs []domain.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toResponse(j))
	}
	return out
}

// Handler agrupa todos os métodos de Handler do job.
type Handler struct {
	Service JobService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc JobService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)

		h.Logger.Info("Requisição concluída com sucesso", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": successStatus,
		})

		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// requireClaims extrai as claims do contexto ou responde 401.
func (h *Handler) requireClaims(w http.ResponseWriter, r *http.Request) (middleware.UserClaims, bool) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Credenciais ausentes no contexto da requisição."), http.StatusOK)
	}
	return claims, ok
}

// CreateHandler lida com a requisição POST /jobs.
// O contractor_id é sempre o do token autenticado.
// @Summary Cria um novo job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param job body domain.JobCreation true "Dados do job (expiration_date em dd/mm/aaaa hh:mm)"
// @Success 201 {object} JobResponse "Job criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou campos obrigatórios ausentes"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} domain.ErrorResponse "Apenas contratantes criam jobs"
// @Router /jobs [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := h.requireClaims(w, r)
	if !ok {
		return
	}

	var creation domain.JobCreation
	if err := json.NewDecoder(r.Body).Decode(&creation); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	created, err := h.Service.Create(ctx, claims.UserID, creation)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, toResponse(created), nil, http.StatusCreated)
}

// ListOpenHandler lida com a requisição GET /jobs.
// @Summary Lista os jobs abertos (sem desenvolvedor atribuído)
// @Tags jobs
// @Produce json
// @Success 200 {array} JobResponse "Jobs abertos"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /jobs [get]
func (h *Handler) ListOpenHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobs, err := h.Service.ListOpen(ctx)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, toResponseList(jobs), nil, http.StatusOK)
}

// GetOpenHandler lida com a requisição GET /jobs/{id}.
// @Summary Consulta pública de um job por ID
// @Tags jobs
// @Produce json
// @Param id path string true "ID do job"
// @Success 200 {object} JobResponse "Job aberto"
// @Failure 403 {object} domain.ErrorResponse "Job já atribuído a um desenvolvedor"
// @Failure 404 {object} domain.ErrorResponse "Job não encontrado"
// @Router /jobs/{id} [get]
func (h *Handler) GetOpenHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	found, err := h.Service.GetOpen(ctx, id)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, toResponse(found), nil, http.StatusOK)
}

// GetInfoHandler lida com a requisição GET /jobs/{id}/info.
// Visível apenas para o contratante dono ou o desenvolvedor atribuído.
// @Summary Consulta autenticada de um job por ID
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do job"
// @Success 200 {object} JobResponse "Job"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} domain.ErrorResponse "Sem vínculo com este job"
// @Failure 404 {object} domain.ErrorResponse "Job não encontrado"
// @Router /jobs/{id}/info [get]
func (h *Handler) GetInfoHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	claims, ok := h.requireClaims(w, r)
	if !ok {
		return
	}

	found, err := h.Service.GetAuthenticated(ctx, id, claims.Actor())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, toResponse(found), nil, http.StatusOK)
}

// UpdateHandler lida com a requisição PATCH /jobs/{id}.
// Enviar "developer" (email) atribui o job e move o progresso para ongoing.
// @Summary Atualiza um job (apenas o contratante dono)
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do job"
// @Param update body domain.JobUpdate true "Campos a atualizar"
// @Success 200 {object} JobResponse "Job atualizado"
// @Failure 400 {object} domain.ErrorResponse "Nenhum campo válido ou valores fora das regras"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} domain.ErrorResponse "Job de outro contratante"
// @Failure 404 {object} domain.ErrorResponse "Job ou desenvolvedor não encontrado"
// @Router /jobs/{id} [patch]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	claims, ok := h.requireClaims(w, r)
	if !ok {
		return
	}

	// Chaves fora do contrato de atualização rejeitam o payload inteiro, em
	// vez de serem descartadas em silêncio.
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var update domain.JobUpdate
	if err := decoder.Decode(&update); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Campo não reconhecido no payload. Os campos aceitos são: name, description, price, difficulty_level, expiration_date, progress e developer."), http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	updated, err := h.Service.Update(ctx, id, claims.Actor(), update)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, toResponse(updated), nil, http.StatusOK)
}

// DeleteHandler lida com a requisição DELETE /jobs/{id}.
// @Summary Exclui um job (apenas o contratante dono)
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do job"
// @Success 200 {object} map[string]string "Job excluído"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} domain.ErrorResponse "Job de outro contratante"
// @Failure 404 {object} domain.ErrorResponse "Job não encontrado"
// @Router /jobs/{id} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	claims, ok := h.requireClaims(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(ctx, id, claims.Actor()); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]string{"message": "Job excluído com sucesso."}, nil, http.StatusOK)
}

// ListByContractorHandler lida com a requisição GET /contractors/jobs.
// @Summary Lista os jobs do contratante autenticado
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param progress query string false "Filtro de progresso: none, ongoing ou completed"
// @Param page query int false "Página (padrão 1)"
// @Param per_page query int false "Itens por página (padrão 5)"
// @Success 200 {array} JobResponse "Jobs do contratante"
// @Failure 400 {object} domain.ErrorResponse "Filtro de progresso inválido"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Router /contractors/jobs [get]
func (h *Handler) ListByContractorHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := h.requireClaims(w, r)
	if !ok {
		return
	}

	progress, page, perPage := paginationParams(r)
	jobs, err := h.Service.ListByContractor(ctx, claims.Actor(), progress, page, perPage)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, toResponseList(jobs), nil, http.StatusOK)
}

// ListByDeveloperHandler lida com a requisição GET /developers/jobs.
// @Summary Lista os jobs atribuídos ao desenvolvedor autenticado
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param progress query string false "Filtro de progresso: ongoing ou completed"
// @Param page query int false "Página (padrão 1)"
// @Param per_page query int false "Itens por página (padrão 5)"
// @Success 200 {array} JobResponse "Jobs do desenvolvedor"
// @Failure 400 {object} domain.ErrorResponse "Filtro de progresso inválido"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Router /developers/jobs [get]
func (h *Handler) ListByDeveloperHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := h.requireClaims(w, r)
	if !ok {
		return
	}

	progress, page, perPage := paginationParams(r)
	jobs, err := h.Service.ListByDeveloper(ctx, claims.Actor(), progress, page, perPage)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, toResponseList(jobs), nil, http.StatusOK)
}

// SearchByTechHandler lida com a requisição GET /jobs/tech?tech=a&tech=b.
// A resposta agrupa os jobs abertos por palavra-chave, na ordem enviada.
// @Summary Busca jobs abertos por palavras-chave na descrição
// @Tags jobs
// @Produce json
// @Param tech query []string false "Palavras-chave (repetível)"
// @Success 200 {array} []JobResponse "Grupos de jobs, um por palavra-chave"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /jobs/tech [get]
func (h *Handler) SearchByTechHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keywords := r.URL.Query()["tech"]
	groups, err := h.Service.SearchByTechKeyword(ctx, keywords)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	response := make([][]JobResponse, 0, len(groups))
	for _, group := range groups {
		response = append(response, toResponseList(group))
	}
	h.handleServiceResponse(w, r, response, nil, http.StatusOK)
}

// paginationParams extrai progress, page e per_page da query string.
// Valores não numéricos caem nos padrões do serviço.
func paginationParams(r *http.Request) (string, int, int) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))
	return query.Get("progress"), page, perPage
}
