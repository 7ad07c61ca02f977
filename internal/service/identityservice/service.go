package identityservice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
	"gojobs/internal/pkg/token"
)

// ContractorReader é a fatia do repositório de contratantes que a resolução
// de identidade precisa.
type ContractorReader interface {
	FindByEmail(ctx context.Context, email string) (domain.Contractor, error)
}

// DeveloperReader é a fatia do repositório de desenvolvedores que a resolução
// de identidade precisa.
type DeveloperReader interface {
	FindByEmail(ctx context.Context, email string) (domain.Developer, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string, email string, userRole string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// Service implementa o Registro de Identidade: unicidade de email entre as
// duas tabelas, validadores de formato e autenticação com emissão de JWT.
type Service struct {
	contractors ContractorReader
	developers  DeveloperReader
	tokens      TokenService
	logger      logger.Logger
}

// NewService cria e retorna uma nova instância do serviço de identidade.
func NewService(contractors ContractorReader, developers DeveloperReader, tokens TokenService, logger logger.Logger) *Service {
	return &Service{
		contractors: contractors,
		developers:  developers,
		tokens:      tokens,
		logger:      logger,
	}
}

// cnpjPattern é o padrão fixo de pontuação do CNPJ: 00.000.000/0000-00.
var cnpjPattern = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)

// ValidEmail aplica a regra mínima de formato: o email deve conter '@' e '.'.
func ValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// ValidPassword verifica a política de senha: 6 a 20 caracteres com pelo
// menos um dígito, uma maiúscula, uma minúscula e um caractere especial.
// Implementado por varredura de runas porque o regexp do Go (RE2) não
// suporta lookahead. O comprimento conta runas, não bytes.
func ValidPassword(password string) bool {
	length := utf8.RuneCountInString(password)
	if length < 6 || length > 20 {
		return false
	}

	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		default:
			hasSpecial = true
		}
	}

	return hasDigit && hasUpper && hasLower && hasSpecial
}

// ValidCNPJ verifica o padrão de pontuação do CNPJ.
func ValidCNPJ(cnpj string) bool {
	return cnpjPattern.MatchString(cnpj)
}

// HashPassword gera o hash bcrypt de uma senha em texto puro.
func (s *Service) HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}
	return string(hashed), nil
}

// ResolveIdentity consulta as duas tabelas e devolve a variante preenchida.
// Pela invariante de unicidade, no máximo uma tabela pode conter o email.
func (s *Service) ResolveIdentity(ctx context.Context, email string) (domain.Identity, error) {
	s.logger.Debug("Resolvendo identidade por email.", map[string]interface{}{"email": email})

	if contractor, err := s.contractors.FindByEmail(ctx, email); err == nil {
		return domain.Identity{Role: domain.RoleContractor, Contractor: &contractor}, nil
	} else if !isNotFound(err) {
		return domain.Identity{}, err
	}

	if developer, err := s.developers.FindByEmail(ctx, email); err == nil {
		return domain.Identity{Role: domain.RoleDeveloper, Developer: &developer}, nil
	} else if !isNotFound(err) {
		return domain.Identity{}, err
	}

	return domain.Identity{}, apperror.NewNotFoundError(fmt.Sprintf("Nenhum usuário encontrado com o email '%s'.", email))
}

// GuardNewEmail garante que um email de cadastro não está em uso em nenhuma
// das duas tabelas. Usado pelos dois caminhos de registro.
func (s *Service) GuardNewEmail(ctx context.Context, email string, role domain.UserRole) error {
	identity, err := s.ResolveIdentity(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil // Email livre nas duas tabelas
		}
		return err
	}

	if identity.Role == role {
		return apperror.NewConflictError(fmt.Sprintf("Você já se cadastrou com este email como %s.", roleLabel(role)))
	}
	return apperror.NewConflictError(fmt.Sprintf("Este email já está em uso como %s, use outro para sua conta de %s.", roleLabel(identity.Role), roleLabel(role)))
}

// GuardEmailCrossRole garante, no caminho de atualização, que o novo email não
// pertence ao papel oposto. Duplicidade no mesmo papel é barrada pela unique
// constraint traduzida no repositório (que exclui o próprio registro).
func (s *Service) GuardEmailCrossRole(ctx context.Context, email string, role domain.UserRole) error {
	switch role {
	case domain.RoleContractor:
		if _, err := s.developers.FindByEmail(ctx, email); err == nil {
			return apperror.NewConflictError("Este email já está sendo usado por um desenvolvedor.")
		} else if !isNotFound(err) {
			return err
		}
	case domain.RoleDeveloper:
		if _, err := s.contractors.FindByEmail(ctx, email); err == nil {
			return apperror.NewConflictError("Este email já está sendo usado por um contratante.")
		} else if !isNotFound(err) {
			return err
		}
	}
	return nil
}

// Login autentica um usuário de qualquer papel e emite um JWT com id, email e role.
// Devolve também o ator resolvido, para a resposta de login informar o papel.
func (s *Service) Login(ctx context.Context, email string, password string) (string, domain.Actor, error) {
	if email == "" || password == "" {
		return "", domain.Actor{}, apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	identity, err := s.ResolveIdentity(ctx, email)
	if err != nil {
		// Usuário ausente nas duas tabelas é 404, como o restante do sistema reporta.
		if isNotFound(err) {
			return "", domain.Actor{}, apperror.NewNotFoundError("Usuário não encontrado.")
		}
		return "", domain.Actor{}, err
	}

	// Compara a senha informada (texto puro) com o hash salvo no DB.
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash()), []byte(password)); err != nil {
		s.logger.Warn("Tentativa de login com senha inválida.", map[string]interface{}{"email": email})
		return "", domain.Actor{}, apperror.NewUnauthorizedError("Senha inválida.")
	}

	tokenString, err := s.tokens.GenerateToken(identity.ID(), identity.Email(), string(identity.Role))
	if err != nil {
		return "", domain.Actor{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	actor := domain.Actor{ID: identity.ID(), Email: identity.Email(), Role: identity.Role}
	s.logger.Info("Login realizado com sucesso.", map[string]interface{}{"user_id": actor.ID, "role": actor.Role})
	return tokenString, actor, nil
}

// isNotFound informa se o erro da cadeia é um NotFoundError tipado.
func isNotFound(err error) bool {
	var notFoundErr *apperror.NotFoundError
	return errors.As(err, &notFoundErr)
}

// roleLabel traduz o papel para o texto usado nas mensagens da API.
func roleLabel(role domain.UserRole) string {
	if role == domain.RoleContractor {
		return "contratante"
	}
	return "desenvolvedor"
}
