package developerservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
	"gojobs/internal/service/developerservice"
)

// MockDeveloperRepository é uma implementação mock da interface DeveloperRepository
type MockDeveloperRepository struct {
	mock.Mock
}

func (m *MockDeveloperRepository) Create(ctx context.Context, developer domain.Developer) (domain.Developer, error) {
	args := m.Called(ctx, developer)
	return args.Get(0).(domain.Developer), args.Error(1)
}

func (m *MockDeveloperRepository) FindByID(ctx context.Context, id string) (domain.Developer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Developer), args.Error(1)
}

func (m *MockDeveloperRepository) FindByEmail(ctx context.Context, email string) (domain.Developer, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Developer), args.Error(1)
}

func (m *MockDeveloperRepository) FindAll(ctx context.Context) ([]domain.Developer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Developer), args.Error(1)
}

func (m *MockDeveloperRepository) Update(ctx context.Context, developer domain.Developer) (domain.Developer, error) {
	args := m.Called(ctx, developer)
	return args.Get(0).(domain.Developer), args.Error(1)
}

func (m *MockDeveloperRepository) Delete(ctx context.Context, id string) error {
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

// MockTechService é uma implementação mock da interface TechService
type MockTechService struct {
	mock.Mock
}

func (m *MockTechService) ReplaceTechnologies(ctx context.Context, developerID string, names []string) (domain.TechReplacement, error) {
	args := m.Called(ctx, developerID, names)
	return args.Get(0).(domain.TechReplacement), args.Error(1)
}

func (m *MockTechService) ListTechnologies(ctx context.Context, developerID string) ([]string, error) {
	args := m.Called(ctx, developerID)
	return args.Get(0).([]string), args.Error(1)
}

func newTestLogger() logger.Logger {
	return logger.NewLogger("debug")
}

func strPtr(s string) *string { return &s }

func developerActor(id string) domain.Actor {
	return domain.Actor{ID: id, Email: "dev@mail.com", Role: domain.RoleDeveloper}
}

func validRegistration() domain.DeveloperRegistration {
	return domain.DeveloperRegistration{
		Name:         "Maria Dev",
		Email:        "dev@mail.com",
		Password:     "Senha#123",
		Birthdate:    "15/03/1995",
		Technologies: []string{"Go", "Cobol77"},
	}
}

// --- Register ---

func TestRegisterDeveloper_Success_PartialTechs(t *testing.T) {
	mockRepo := new(MockDeveloperRepository)
	mockIdentity := new(MockIdentityService)
	mockTechs := new(MockTechService)
	svc := developerservice.NewService(mockRepo, mockIdentity, mockTechs, newTestLogger())

	reg := validRegistration()
	created := domain.Developer{
		ID:        "d-1",
		Name:      reg.Name,
		Email:     reg.Email,
		Birthdate: time.Date(1995, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	mockIdentity.On("GuardNewEmail", mock.Anything, reg.Email, domain.RoleDeveloper).Return(nil)
	mockIdentity.On("HashPassword", reg.Password).Return("hashed", nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(d domain.Developer) bool {
		return d.Email == reg.Email && d.Birthdate.Equal(created.Birthdate)
	})).Return(created, nil)
	replacement := domain.TechReplacement{Applied: []string{"Go"}, Unresolved: []string{"Cobol77"}}
	mockTechs.On("ReplaceTechnologies", mock.Anything, "d-1", reg.Technologies).Return(replacement, nil)

	profile, result, err := svc.Register(context.Background(), reg)

	assert.NoError(t, err)
	assert.Equal(t, "d-1", profile.ID)
	assert.Equal(t, []string{"Go"}, profile.Technologies)
	assert.Equal(t, []string{"Cobol77"}, result.Unresolved)
	// Nomes fora do catálogo não bloqueiam o cadastro.
	mockRepo.AssertExpectations(t)
	mockTechs.AssertExpectations(t)
}

func TestRegisterDeveloper_Fail_MissingBirthdate(t *testing.T) {
	mockRepo := new(MockDeveloperRepository)
	svc := developerservice.NewService(mockRepo, new(MockIdentityService), new(MockTechService), newTestLogger())

	reg := validRegistration()
	reg.Birthdate = ""
	_, _, err := svc.Register(context.Background(), reg)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestRegisterDeveloper_Fail_BadBirthdate(t *testing.T) {
	mockRepo := new(MockDeveloperRepository)
	svc := developerservice.NewService(mockRepo, new(MockIdentityService), new(MockTechService), newTestLogger())

	reg := validRegistration()
	reg.Birthdate = "1995-03-15"
	_, _, err := svc.Register(context.Background(), reg)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "dd/mm/aaaa")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestRegisterDeveloper_Fail_EmailTaken(t *testing.T) {
	mockRepo := new(MockDeveloperRepository)
	mockIdentity := new(MockIdentityService)
	svc := developerservice.NewService(mockRepo, mockIdentity, new(MockTechService), newTestLogger())

	reg := validRegistration()
	conflict := apperror.NewConflictError("Você já se cadastrou com este email como desenvolvedor.")
	mockIdentity.On("GuardNewEmail", mock.Anything, reg.Email, domain.RoleDeveloper).Return(conflict)

	_, _, err := svc.Register(context.Background(), reg)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Create")
}

// --- GetProfile ---

func TestGetDeveloperProfile_Success(t *testing.T) {
	mockRepo := new(MockDeveloperRepository)
	mockTechs := new(MockTechService)
	svc := developerservice.NewService(mockRepo, new(MockIdentityService), mockTechs, newTestLogger())

	found := domain.Developer{ID: "d-1", Name: "Maria Dev", Birthdate: time.Date(1995, 3, 15, 0, 0, 0, 0, time.UTC)}
	mockRepo.On("FindByID", mock.Anything, "d-1").Return(found, nil)
	mockTechs.On("ListTechnologies", mock.Anything, "d-1").Return([]string{"Go", "SQL"}, nil)

	profile, err := svc.GetProfile(context.Background(), developerActor("d-1"))

	assert.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, profile.Technologies)
	assert.Equal(t, "15/03/1995", profile.BirthdateFormatted)
}

// --- UpdateProfile ---

func TestUpdateDeveloper_TechnologiesReplaced(t *testing.T) {
	mockRepo := new(MockDeveloperRepository)
	mockIdentity := new(MockIdentityService)
	mockTechs := new(MockTechService)
	svc := developerservice.NewService(mockRepo, mockIdentity, mockTechs, newTestLogger())

	existing := domain.Developer{ID: "d-1", Email: "dev@mail.com"}
	mockRepo.On("FindByID", mock.Anything, "d-1").Return(existing, nil)
	replacement := domain.TechReplacement{Applied: []string{"Rust"}, Unresolved: []string{}}
	mockTechs.On("ReplaceTechnologies", mock.Anything, "d-1", []string{"Rust"}).Return(replacement, nil)
	mockRepo.On("Update", mock.Anything, existing).Return(existing, nil)
	mockTechs.On("ListTechnologies", mock.Anything, "d-1").Return([]string{"Rust"}, nil)

	update := domain.DeveloperUpdate{Technologies: []string{"Rust"}}
	profile, result, err := svc.UpdateProfile(context.Background(), developerActor("d-1"), update)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Rust"}, profile.Technologies)
	assert.Equal(t, []string{"Rust"}, result.Applied)
	mockTechs.AssertExpectations(t)
}

func TestUpdateDeveloper_OmittedTechnologiesKeepLinks(t *testing.T) {
	mockRepo := new(MockDeveloperRepository)
	mockIdentity := new(MockIdentityService)
	mockTechs := new(MockTechService)
	svc := developerservice.NewService(mockRepo, mockIdentity, mockTechs, newTestLogger())

	existing := domain.Developer{ID: "d-1", Name: "Maria Dev"}
	mockRepo.On("FindByID", mock.Anything, "d-1").Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(existing, nil)
	mockTechs.On("ListTechnologies", mock.Anything, "d-1").Return([]string{"Go"}, nil)

	update := domain.DeveloperUpdate{Name: strPtr("Maria D.")}
	_, _, err := svc.UpdateProfile(context.Background(), developerActor("d-1"), update)

	assert.NoError(t, err)
	// Campo technologies omitido não mexe nos vínculos.
	mockTechs.AssertNotCalled(t, "ReplaceTechnologies")
}

func TestUpdateDeveloper_Fail_EmptyUpdate(t *testing.T) {
	mockRepo := new(MockDeveloperRepository)
	svc := developerservice.NewService(mockRepo, new(MockIdentityService), new(MockTechService), newTestLogger())

	_, _, err := svc.UpdateProfile(context.Background(), developerActor("d-1"), domain.DeveloperUpdate{})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindByID")
}

func TestUpdateDeveloper_Fail_CrossRoleEmail(t *testing.T) {
	mockRepo := new(MockDeveloperRepository)
	mockIdentity := new(MockIdentityService)
	svc := developerservice.NewService(mockRepo, mockIdentity, new(MockTechService), newTestLogger())

	existing := domain.Developer{ID: "d-1", Email: "dev@mail.com"}
	mockRepo.On("FindByID", mock.Anything, "d-1").Return(existing, nil)
	conflict := apperror.NewConflictError("Este email já está sendo usado por um contratante.")
	mockIdentity.On("GuardEmailCrossRole", mock.Anything, "empresa@mail.com", domain.RoleDeveloper).Return(conflict)

	update := domain.DeveloperUpdate{Email: strPtr("empresa@mail.com")}
	_, _, err := svc.UpdateProfile(context.Background(), developerActor("d-1"), update)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Update")
}

// --- DeleteProfile ---

func TestDeleteDeveloper_Success(t *testing.T) {
	mockRepo := new(MockDeveloperRepository)
	svc := developerservice.NewService(mockRepo, new(MockIdentityService), new(MockTechService), newTestLogger())

	mockRepo.On("Delete", mock.Anything, "d-1").Return(nil)

	err := svc.DeleteProfile(context.Background(), developerActor("d-1"))

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
