package contractorservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
	"gojobs/internal/service/contractorservice"
)

// MockContractorRepository é uma implementação mock da interface ContractorRepository
type MockContractorRepository struct {
	mock.Mock
}

func (m *MockContractorRepository) Create(ctx context.Context, contractor domain.Contractor) (domain.Contractor, error) {
	args := m.Called(ctx, contractor)
	return args.Get(0).(domain.Contractor), args.Error(1)
}

func (m *MockContractorRepository) FindByID(ctx context.Context, id string) (domain.Contractor, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Contractor), args.Error(1)
}

func (m *MockContractorRepository) FindByEmail(ctx context.Context, email string) (domain.Contractor, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Contractor), args.Error(1)
}

func (m *MockContractorRepository) FindByCNPJ(ctx context.Context, cnpj string) (domain.Contractor, error) {
	args := m.Called(ctx, cnpj)
	return args.Get(0).(domain.Contractor), args.Error(1)
}

func (m *MockContractorRepository) FindAll(ctx context.Context) ([]domain.Contractor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Contractor), args.Error(1)
}

func (m *MockContractorRepository) Update(ctx context.Context, contractor domain.Contractor) (domain.Contractor, error) {
	args := m.Called(ctx, contractor)
	return args.Get(0).(domain.Contractor), args.Error(1)
}

func (m *MockContractorRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockIdentityService é uma implementação mock da interface IdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) GuardNewEmail(ctx context.Context, email string, role domain.UserRole) error {
	args := m.Called(ctx, email, role)
	return args.Error(0)
}

func (m *MockIdentityService) GuardEmailCrossRole(ctx context.Context, email string, role domain.UserRole) error {
	args := m.Called(ctx, email, role)
	return args.Error(0)
}

func (m *MockIdentityService) HashPassword(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func newTestLogger() logger.Logger {
	return logger.NewLogger("debug")
}

func strPtr(s string) *string { return &s }

func contractorActor(id string) domain.Actor {
	return domain.Actor{ID: id, Email: "empresa@mail.com", Role: domain.RoleContractor}
}

func validRegistration() domain.ContractorRegistration {
	return domain.ContractorRegistration{
		Name:     "Empresa Alpha",
		Email:    "empresa@mail.com",
		Password: "Senha#123",
	}
}

// --- Register ---

func TestRegisterContractor_Success(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	reg := validRegistration()
	mockIdentity.On("GuardNewEmail", mock.Anything, reg.Email, domain.RoleContractor).Return(nil)
	mockIdentity.On("HashPassword", reg.Password).Return("hashed", nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Contractor) bool {
		return c.Name == reg.Name && c.Email == reg.Email && c.PasswordHash == "hashed"
	})).Return(domain.Contractor{ID: "c-1", Name: reg.Name, Email: reg.Email}, nil)

	created, err := svc.Register(context.Background(), reg)

	assert.NoError(t, err)
	assert.Equal(t, "c-1", created.ID)
	mockRepo.AssertExpectations(t)
	mockIdentity.AssertExpectations(t)
}

func TestRegisterContractor_Success_WithCNPJ(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	reg := validRegistration()
	reg.CNPJ = strPtr("12.345.678/0001-90")
	mockRepo.On("FindByCNPJ", mock.Anything, *reg.CNPJ).Return(domain.Contractor{}, apperror.NewNotFoundError("não encontrado"))
	mockIdentity.On("GuardNewEmail", mock.Anything, reg.Email, domain.RoleContractor).Return(nil)
	mockIdentity.On("HashPassword", reg.Password).Return("hashed", nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(domain.Contractor{ID: "c-1"}, nil)

	_, err := svc.Register(context.Background(), reg)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRegisterContractor_Fail_MissingFields(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	_, err := svc.Register(context.Background(), domain.ContractorRegistration{Name: "Só nome"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestRegisterContractor_Fail_WeakPassword(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	reg := validRegistration()
	reg.Password = "fraca"
	_, err := svc.Register(context.Background(), reg)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockIdentity.AssertNotCalled(t, "HashPassword")
}

func TestRegisterContractor_Fail_BadCNPJ(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	reg := validRegistration()
	reg.CNPJ = strPtr("12345678000190")
	_, err := svc.Register(context.Background(), reg)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "00.000.000/0000-00")
	mockRepo.AssertNotCalled(t, "FindByCNPJ")
}

func TestRegisterContractor_Fail_DuplicateCNPJ(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	reg := validRegistration()
	reg.CNPJ = strPtr("12.345.678/0001-90")
	mockRepo.On("FindByCNPJ", mock.Anything, *reg.CNPJ).Return(domain.Contractor{ID: "c-outro"}, nil)

	_, err := svc.Register(context.Background(), reg)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestRegisterContractor_Fail_EmailTaken(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	reg := validRegistration()
	conflict := apperror.NewConflictError("Este email já está em uso como desenvolvedor, use outro para sua conta de contratante.")
	mockIdentity.On("GuardNewEmail", mock.Anything, reg.Email, domain.RoleContractor).Return(conflict)

	_, err := svc.Register(context.Background(), reg)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Create")
}

// --- UpdateProfile ---

func TestUpdateContractor_Success_EmailChange(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	existing := domain.Contractor{ID: "c-1", Name: "Empresa Alpha", Email: "antigo@mail.com"}
	mockRepo.On("FindByID", mock.Anything, "c-1").Return(existing, nil)
	mockIdentity.On("GuardEmailCrossRole", mock.Anything, "novo@mail.com", domain.RoleContractor).Return(nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(c domain.Contractor) bool {
		return c.Email == "novo@mail.com"
	})).Return(domain.Contractor{ID: "c-1", Email: "novo@mail.com"}, nil)

	update := domain.ContractorUpdate{Email: strPtr("novo@mail.com")}
	updated, err := svc.UpdateProfile(context.Background(), contractorActor("c-1"), update)

	assert.NoError(t, err)
	assert.Equal(t, "novo@mail.com", updated.Email)
	mockRepo.AssertExpectations(t)
}

func TestUpdateContractor_Fail_EmptyUpdate(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	_, err := svc.UpdateProfile(context.Background(), contractorActor("c-1"), domain.ContractorUpdate{})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindByID")
}

func TestUpdateContractor_Fail_CrossRoleEmail(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	existing := domain.Contractor{ID: "c-1", Email: "antigo@mail.com"}
	mockRepo.On("FindByID", mock.Anything, "c-1").Return(existing, nil)
	conflict := apperror.NewConflictError("Este email já está sendo usado por um desenvolvedor.")
	mockIdentity.On("GuardEmailCrossRole", mock.Anything, "dev@mail.com", domain.RoleContractor).Return(conflict)

	update := domain.ContractorUpdate{Email: strPtr("dev@mail.com")}
	_, err := svc.UpdateProfile(context.Background(), contractorActor("c-1"), update)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdateContractor_PasswordIsRehashed(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	existing := domain.Contractor{ID: "c-1", Email: "empresa@mail.com", PasswordHash: "hash-antigo"}
	mockRepo.On("FindByID", mock.Anything, "c-1").Return(existing, nil)
	mockIdentity.On("HashPassword", "Nova#Senha1").Return("hash-novo", nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(c domain.Contractor) bool {
		return c.PasswordHash == "hash-novo"
	})).Return(existing, nil)

	update := domain.ContractorUpdate{Password: strPtr("Nova#Senha1")}
	_, err := svc.UpdateProfile(context.Background(), contractorActor("c-1"), update)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// --- DeleteProfile ---

func TestDeleteContractor_Success(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	mockRepo.On("Delete", mock.Anything, "c-1").Return(nil)

	err := svc.DeleteProfile(context.Background(), contractorActor("c-1"))

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteContractor_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockContractorRepository)
	mockIdentity := new(MockIdentityService)
	svc := contractorservice.NewService(mockRepo, mockIdentity, newTestLogger())

	mockRepo.On("Delete", mock.Anything, "c-1").Return(apperror.NewNotFoundError("Contratante não encontrado."))

	err := svc.DeleteProfile(context.Background(), contractorActor("c-1"))

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}
