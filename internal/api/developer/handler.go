package developer

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

// DeveloperService define o contrato que o Handler espera da camada de Serviço.
type DeveloperService interface {
	Register(ctx context.Context, registration domain.DeveloperRegistration) (domain.DeveloperProfile, domain.TechReplacement, error)
	GetProfile(ctx context.Context, actor domain.Actor) (domain.DeveloperProfile, error)
	ListAll(ctx context.Context) ([]domain.DeveloperProfile, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, update domain.DeveloperUpdate) (domain.DeveloperProfile, domain.TechReplacement, error)
	DeleteProfile(ctx context.Context, actor domain.Actor) error
}

// ProfileResponse agrega o perfil do desenvolvedor ao resultado da troca de
// tecnologias, incluindo as que não existem no catálogo.
type ProfileResponse struct {
	domain.DeveloperProfile
	TechnologiesNotAvailable []string `json:"technologies_not_available,omitempty"`
}

// Handler agrupa todos os métodos de Handler do desenvolvedor.
type Handler struct {
	Service DeveloperService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc DeveloperService, log logger.Logger) *Handler {
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

// RegisterHandler lida com a requisição POST /developers/signup.
// Tecnologias fora do catálogo não abortam o registro: o subconjunto
// resolvido é vinculado e as demais voltam em technologies_not_available.
// @Summary Registra um novo desenvolvedor
// @Description Valida os dados, garante email único nas duas bases, hasheia a senha, salva no banco e vincula as tecnologias reconhecidas do catálogo.
// @Tags developers
// @Accept json
// @Produce json
// @Param registration body domain.DeveloperRegistration true "Dados de registro do desenvolvedor"
// @Success 201 {object} ProfileResponse "Desenvolvedor criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou campos fora das regras"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /developers/signup [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reg domain.DeveloperRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	profile, replacement, err := h.Service.Register(ctx, reg)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	response := ProfileResponse{DeveloperProfile: profile, TechnologiesNotAvailable: replacement.Unresolved}
	h.handleServiceResponse(w, r, response, nil, http.StatusCreated)
}

// GetProfileHandler lida com a requisição GET /developers/profile.
// @Summary Consulta o perfil do desenvolvedor autenticado
// @Tags developers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.DeveloperProfile "Perfil do desenvolvedor com as tecnologias vinculadas"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 404 {object} domain.ErrorResponse "Desenvolvedor não encontrado"
// @Router /developers/profile [get]
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

// ListHandler lida com a requisição GET /developers.
// @Summary Lista todos os desenvolvedores
// @Tags developers
// @Produce json
// @Success 200 {array} domain.DeveloperProfile "Lista de desenvolvedores com suas tecnologias"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /developers [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	developers, err := h.Service.ListAll(ctx)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	if developers == nil {
		developers = []domain.DeveloperProfile{}
	}
	h.handleServiceResponse(w, r, developers, nil, http.StatusOK)
}

// UpdateProfileHandler lida com a requisição PATCH /developers/update.
// Enviar "technologies" substitui o conjunto inteiro de vínculos; omitir o
// campo preserva os vínculos atuais.
// @Summary Atualiza o perfil do desenvolvedor autenticado
// @Description Atualização parcial: apenas os campos enviados são alterados.
// @Tags developers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param update body domain.DeveloperUpdate true "Campos a atualizar"
// @Success 200 {object} ProfileResponse "Perfil atualizado"
// @Failure 400 {object} domain.ErrorResponse "Nenhum campo válido ou valores fora das regras"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado no outro papel"
// @Router /developers/update [patch]
func (h *Handler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Credenciais ausentes no contexto da requisição."), http.StatusOK)
		return
	}

	var update domain.DeveloperUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	profile, replacement, err := h.Service.UpdateProfile(ctx, claims.Actor(), update)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	response := ProfileResponse{DeveloperProfile: profile, TechnologiesNotAvailable: replacement.Unresolved}
	h.handleServiceResponse(w, r, response, nil, http.StatusOK)
}

// DeleteProfileHandler lida com a requisição DELETE /developers/delete.
// @Summary Exclui a conta do desenvolvedor autenticado
// @Description Remove o desenvolvedor e seus vínculos de tecnologia. Jobs atribuídos a ele voltam a ficar sem desenvolvedor.
// @Tags developers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Conta excluída"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 404 {object} domain.ErrorResponse "Desenvolvedor não encontrado"
// @Router /developers/delete [delete]
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
