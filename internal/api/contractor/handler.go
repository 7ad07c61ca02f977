package contractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
	"gojobs/internal/pkg/middleware"
)

// ContractorService define o contrato que o Handler espera da camada de Serviço.
type ContractorService interface {
	Register(ctx context.Context, registration domain.ContractorRegistration) (domain.Contractor, error)
	GetProfile(ctx context.Context, actor domain.Actor) (domain.Contractor, error)
	ListAll(ctx context.Context) ([]domain.Contractor, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, update domain.ContractorUpdate) (domain.Contractor, error)
	DeleteProfile(ctx context.Context, actor domain.Actor) error
}

// Handler agrupa todos os métodos de Handler do contratante.
type Handler struct {
	Service ContractorService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ContractorService, log logger.Logger) *Handler {
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

// RegisterHandler lida com a requisição POST /contractors/signup.
// @Summary Registra um novo contratante
// @Description Valida os dados, garante email único nas duas bases, hasheia a senha e salva no banco.
// @Tags contractors
// @Accept json
// @Produce json
// @Param registration body domain.ContractorRegistration true "Dados de registro do contratante"
// @Success 201 {object} domain.Contractor "Contratante criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou campos fora das regras"
// @Failure 409 {object} domain.ErrorResponse "Email ou CNPJ já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /contractors/signup [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reg domain.ContractorRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	newContractor, err := h.Service.Register(ctx, reg)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, newContractor, nil, http.StatusCreated)
}

// GetProfileHandler lida com a requisição GET /contractors/profile.
// @Summary Consulta o perfil do contratante autenticado
// @Tags contractors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Contractor "Perfil do contratante"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 404 {object} domain.ErrorResponse "Contratante não encontrado"
// @Router /contractors/profile [get]
func (h *Handler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Credenciais ausentes no contexto da requisição."), http.StatusOK)
		return
	}

	profile, err := h.Service.GetProfile(ctx, claims.Actor())
	h.handleServiceResponse(w, r, profile, err, http.StatusOK)
}

// ListHandler lida com a requisição GET /contractors.
// @Summary Lista todos os contratantes
// @Tags contractors
// @Produce json
// @Success 200 {array} domain.Contractor "Lista de contratantes"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /contractors [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contractors, err := h.Service.ListAll(ctx)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	if contractors == nil {
		contractors = []domain.Contractor{}
	}
	h.handleServiceResponse(w, r, contractors, nil, http.StatusOK)
}

// UpdateProfileHandler lida com a requisição PATCH /contractors/update.
// @Summary Atualiza o perfil do contratante autenticado
// @Description Atualização parcial: apenas os campos enviados são alterados.
// @Tags contractors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param update body domain.ContractorUpdate true "Campos a atualizar"
// @Success 200 {object} domain.Contractor "Perfil atualizado"
// @Failure 400 {object} domain.ErrorResponse "Nenhum campo válido ou valores fora das regras"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado no outro papel"
// @Router /contractors/update [patch]
func (h *Handler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Credenciais ausentes no contexto da requisição."), http.StatusOK)
		return
	}

	var update domain.ContractorUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	updated, err := h.Service.UpdateProfile(ctx, claims.Actor(), update)
	h.handleServiceResponse(w, r, updated, err, http.StatusOK)
}

// DeleteProfileHandler lida com a requisição DELETE /contractors/delete.
// @Summary Exclui a conta do contratante autenticado
// @Tags contractors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Conta excluída"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 404 {object} domain.ErrorResponse "Contratante não encontrado"
// @Router /contractors/delete [delete]
func (h *Handler) DeleteProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Credenciais ausentes no contexto da requisição."), http.StatusOK)
		return
	}

	if err := h.Service.DeleteProfile(ctx, claims.Actor()); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]string{"message": "Conta excluída com sucesso."}, nil, http.StatusOK)
}
