package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
)

// IdentityService define o contrato que o Handler de autenticação espera da camada de Serviço.
type IdentityService interface {
	Login(ctx context.Context, email string, password string) (string, domain.Actor, error)
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse representa o payload de saída do login.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Handler agrupa os métodos de Handler de autenticação.
type Handler struct {
	Service IdentityService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc IdentityService, log logger.Logger) *Handler {
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

// LoginHandler lida com a requisição POST /login.
// O namespace de email é compartilhado entre contratantes e desenvolvedores,
// então um único endpoint autentica os dois papéis.
// @Summary Autentica um contratante ou desenvolvedor e retorna um JWT
// @Description Procura o email nas duas bases (contratantes e desenvolvedores), valida a senha e emite o token com o papel resolvido.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credenciais de login (email e senha)"
// @Success 200 {object} LoginResponse "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Senha inválida"
// @Failure 404 {object} domain.ErrorResponse "Usuário não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	token, actor, err := h.Service.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.Logger.Info("Login realizado com sucesso.", map[string]interface{}{"email": actor.Email, "role": string(actor.Role)})
	h.handleServiceResponse(w, r, LoginResponse{Token: token, Role: string(actor.Role)}, nil, http.StatusOK)
}
