package identityservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
	"gojobs/internal/pkg/token"
	"gojobs/internal/service/identityservice"
)

// MockContractorReader é uma implementação mock da interface ContractorReader
type MockContractorReader struct {
	mock.Mock
}

func (m *MockContractorReader) FindByEmail(ctx context.Context, email string) (domain.Contractor, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Contractor), args.Error(1)
}

// MockDeveloperReader é uma implementação mock da interface DeveloperReader
type MockDeveloperReader struct {
	mock.Mock
}

func (m *MockDeveloperReader) FindByEmail(ctx context.Context, email string) (domain.Developer, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Developer), args.Error(1)
}

// MockTokenService é uma implementação mock da interface TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID string, email string, userRole string) (string, error) {
	args := m.Called(userID, email, userRole)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*token.CustomClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*token.CustomClaims)
	return claims, args.Error(1)
}

func newTestLogger() logger.Logger {
	return logger.NewLogger("debug")
}

func newTestService(contractors *MockContractorReader, developers *MockDeveloperReader, tokens *MockTokenService) *identityservice.Service {
	return identityservice.NewService(contractors, developers, tokens, newTestLogger())
}

func notFound() error {
	return apperror.NewNotFoundError("não encontrado")
}

func mustHash(t *testing.T, plaintext string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

// --- Validadores ---

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"joao@empresa.com", true},
		{"a@b.c", true},
		{"sem-arroba.com", false},
		{"sem-ponto@com", false},
		{"", false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, identityservice.ValidEmail(c.email), "email: %q", c.email)
	}
}

func TestValidPassword(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Abc12!", true},
		{"Senha#2024", true},
		{"Çedilha#2024españaxx", true}, // 20 runas (22 bytes): o limite conta runas
		{"ab1!", false},               // curta demais
		{"Abcdefgh1!Abcdefgh1!x", false}, // longa demais
		{"abc123!!", false},           // sem maiúscula
		{"ABC123!!", false},           // sem minúscula
		{"Abcdef!!", false},           // sem dígito
		{"Abc12345", false},           // sem caractere especial
	}

	for _, c := range cases {
		assert.Equal(t, c.want, identityservice.ValidPassword(c.password), "password: %q", c.password)
	}
}

func TestValidCNPJ(t *testing.T) {
	assert.True(t, identityservice.ValidCNPJ("12.345.678/0001-90"))
	assert.False(t, identityservice.ValidCNPJ("12345678000190"))
	assert.False(t, identityservice.ValidCNPJ("12.345.678/0001-9"))
	assert.False(t, identityservice.ValidCNPJ(""))
}

// --- ResolveIdentity ---

func TestResolveIdentity_Contractor(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	svc := newTestService(mockContractors, mockDevelopers, new(MockTokenService))

	found := domain.Contractor{ID: "c-1", Email: "empresa@mail.com"}
	mockContractors.On("FindByEmail", mock.Anything, "empresa@mail.com").Return(found, nil)

	identity, err := svc.ResolveIdentity(context.Background(), "empresa@mail.com")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleContractor, identity.Role)
	assert.Equal(t, "c-1", identity.ID())
	// A tabela de desenvolvedores nem precisa ser consultada.
	mockDevelopers.AssertNotCalled(t, "FindByEmail")
}

func TestResolveIdentity_Developer(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	svc := newTestService(mockContractors, mockDevelopers, new(MockTokenService))

	mockContractors.On("FindByEmail", mock.Anything, "dev@mail.com").Return(domain.Contractor{}, notFound())
	mockDevelopers.On("FindByEmail", mock.Anything, "dev@mail.com").Return(domain.Developer{ID: "d-1", Email: "dev@mail.com"}, nil)

	identity, err := svc.ResolveIdentity(context.Background(), "dev@mail.com")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleDeveloper, identity.Role)
	assert.Equal(t, "d-1", identity.ID())
}

func TestResolveIdentity_NotFound(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	svc := newTestService(mockContractors, mockDevelopers, new(MockTokenService))

	mockContractors.On("FindByEmail", mock.Anything, "ninguem@mail.com").Return(domain.Contractor{}, notFound())
	mockDevelopers.On("FindByEmail", mock.Anything, "ninguem@mail.com").Return(domain.Developer{}, notFound())

	_, err := svc.ResolveIdentity(context.Background(), "ninguem@mail.com")

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

// --- GuardNewEmail ---

func TestGuardNewEmail_Free(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	svc := newTestService(mockContractors, mockDevelopers, new(MockTokenService))

	mockContractors.On("FindByEmail", mock.Anything, "novo@mail.com").Return(domain.Contractor{}, notFound())
	mockDevelopers.On("FindByEmail", mock.Anything, "novo@mail.com").Return(domain.Developer{}, notFound())

	err := svc.GuardNewEmail(context.Background(), "novo@mail.com", domain.RoleContractor)
	assert.NoError(t, err)
}

func TestGuardNewEmail_SameRoleConflict(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	svc := newTestService(mockContractors, mockDevelopers, new(MockTokenService))

	mockContractors.On("FindByEmail", mock.Anything, "dup@mail.com").Return(domain.Contractor{ID: "c-1", Email: "dup@mail.com"}, nil)

	err := svc.GuardNewEmail(context.Background(), "dup@mail.com", domain.RoleContractor)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Contains(t, err.Error(), "já se cadastrou")
}

func TestGuardNewEmail_CrossRoleConflict(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	svc := newTestService(mockContractors, mockDevelopers, new(MockTokenService))

	mockContractors.On("FindByEmail", mock.Anything, "dev@mail.com").Return(domain.Contractor{}, notFound())
	mockDevelopers.On("FindByEmail", mock.Anything, "dev@mail.com").Return(domain.Developer{ID: "d-1", Email: "dev@mail.com"}, nil)

	err := svc.GuardNewEmail(context.Background(), "dev@mail.com", domain.RoleContractor)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Contains(t, err.Error(), "já está em uso como desenvolvedor")
}

// --- GuardEmailCrossRole ---

func TestGuardEmailCrossRole_OppositeTaken(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	svc := newTestService(mockContractors, mockDevelopers, new(MockTokenService))

	mockDevelopers.On("FindByEmail", mock.Anything, "dev@mail.com").Return(domain.Developer{ID: "d-1"}, nil)

	err := svc.GuardEmailCrossRole(context.Background(), "dev@mail.com", domain.RoleContractor)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	// O próprio papel não é consultado: a unique constraint cobre esse caso.
	mockContractors.AssertNotCalled(t, "FindByEmail")
}

func TestGuardEmailCrossRole_Free(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	svc := newTestService(mockContractors, mockDevelopers, new(MockTokenService))

	mockContractors.On("FindByEmail", mock.Anything, "novo@mail.com").Return(domain.Contractor{}, notFound())

	err := svc.GuardEmailCrossRole(context.Background(), "novo@mail.com", domain.RoleDeveloper)
	assert.NoError(t, err)
}

// --- Login ---

func TestLogin_Success_Contractor(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	mockTokens := new(MockTokenService)
	svc := newTestService(mockContractors, mockDevelopers, mockTokens)

	hash := mustHash(t, "Senha#123")
	found := domain.Contractor{ID: "c-1", Email: "empresa@mail.com", PasswordHash: hash}
	mockContractors.On("FindByEmail", mock.Anything, "empresa@mail.com").Return(found, nil)
	mockTokens.On("GenerateToken", "c-1", "empresa@mail.com", "contractor").Return("jwt-token", nil)

	tokenString, actor, err := svc.Login(context.Background(), "empresa@mail.com", "Senha#123")

	assert.NoError(t, err)
	assert.Equal(t, "jwt-token", tokenString)
	assert.Equal(t, domain.RoleContractor, actor.Role)
	assert.Equal(t, "c-1", actor.ID)
	mockTokens.AssertExpectations(t)
}

func TestLogin_Fail_EmptyCredentials(t *testing.T) {
	mockContractors := new(MockContractorReader)
	svc := newTestService(mockContractors, new(MockDeveloperReader), new(MockTokenService))

	_, _, err := svc.Login(context.Background(), "", "")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	mockContractors.AssertNotCalled(t, "FindByEmail")
}

func TestLogin_Fail_UserNotFound(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	svc := newTestService(mockContractors, mockDevelopers, new(MockTokenService))

	mockContractors.On("FindByEmail", mock.Anything, "ninguem@mail.com").Return(domain.Contractor{}, notFound())
	mockDevelopers.On("FindByEmail", mock.Anything, "ninguem@mail.com").Return(domain.Developer{}, notFound())

	_, _, err := svc.Login(context.Background(), "ninguem@mail.com", "Senha#123")

	// Usuário ausente é 404, senha errada é 401.
	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestLogin_Fail_WrongPassword(t *testing.T) {
	mockContractors := new(MockContractorReader)
	mockDevelopers := new(MockDeveloperReader)
	mockTokens := new(MockTokenService)
	svc := newTestService(mockContractors, mockDevelopers, mockTokens)

	hash := mustHash(t, "Senha#123")
	mockContractors.On("FindByEmail", mock.Anything, "empresa@mail.com").Return(domain.Contractor{ID: "c-1", PasswordHash: hash}, nil)

	_, _, err := svc.Login(context.Background(), "empresa@mail.com", "Errada#123")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	mockTokens.AssertNotCalled(t, "GenerateToken")
}
