package middleware

import (
	"context"
	"net/http"
	"strings"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/token"
)

// ContextKey é o tipo da chave usada para armazenar as claims do usuário no
// contexto. Um tipo próprio evita colisão com outras chaves de contexto.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

const bearerPrefix = "Bearer "

// UserClaims representa a identidade extraída do JWT e anexada ao contexto
// da requisição.
type UserClaims struct {
	UserID string
	Email  string
	Role   domain.UserRole
}

// Actor converte as claims na representação de ator do domínio, para que os
// serviços recebam a identidade autenticada explicitamente.
func (c UserClaims) Actor() domain.Actor {
	return domain.Actor{ID: c.UserID, Email: c.Email, Role: c.Role}
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware cria o middleware que valida o JWT do header Authorization
// e anexa as claims (UserID, Email e Role) ao contexto da requisição.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				http.Error(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado.").Error(), http.StatusUnauthorized)
				return
			}

			claims, err := tokenSvc.ValidateToken(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				http.Error(w, apperror.NewUnauthorizedError("Token inválido ou expirado.").Error(), http.StatusUnauthorized)
				return
			}

			userClaims := UserClaims{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   domain.UserRole(claims.Role),
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext extrai as claims anexadas pelo middleware de
// autenticação. O segundo retorno indica se a requisição foi autenticada.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// PermissionMiddleware restringe o acesso à lista de papéis informada.
// Requisição sem claims no contexto é 401; papel fora da lista é 403.
func PermissionMiddleware(requiredRoles ...domain.UserRole) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado.").Error(), http.StatusUnauthorized)
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, apperror.NewForbiddenError("Você não tem a permissão necessária.").Error(), http.StatusForbidden)
		}
	}
}
