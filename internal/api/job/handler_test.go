package job

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gojobs/internal/domain"
	"gojobs/internal/pkg/logger"
	"gojobs/internal/pkg/middleware"
)

// MockJobService simula a camada de serviço de jobs.
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) Create(ctx context.Context, contractorID string, creation domain.JobCreation) (domain.Job, error) {
	args := m.Called(ctx, contractorID, creation)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *MockJobService) GetOpen(ctx context.Context, id string) (domain.Job, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *MockJobService) GetAuthenticated(ctx context.Context, id string, actor domain.Actor) (domain.Job, error) {
	args := m.Called(ctx, id, actor)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *MockJobService) Update(ctx context.Context, id string, actor domain.Actor, update domain.JobUpdate) (domain.Job, error) {
	args := m.Called(ctx, id, actor, update)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *MockJobService) Delete(ctx context.Context, id string, actor domain.Actor) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

func (m *MockJobService) ListOpen(ctx context.Context) ([]domain.Job, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobService) ListByContractor(ctx context.Context, actor domain.Actor, progress string, page, perPage int) ([]domain.Job, error) {
	args := m.Called(ctx, actor, progress, page, perPage)
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobService) ListByDeveloper(ctx context.Context, actor domain.Actor, progress string, page, perPage int) ([]domain.Job, error) {
	args := m.Called(ctx, actor, progress, page, perPage)
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobService) SearchByTechKeyword(ctx context.Context, keywords []string) ([][]domain.Job, error) {
	args := m.Called(ctx, keywords)
	return args.Get(0).([][]domain.Job), args.Error(1)
}

// patchJobRequest monta uma requisição PATCH /jobs/{id} com claims de
// contratante no contexto, como o middleware de autenticação faria.
func patchJobRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/jobs/job-1", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"id": "job-1"})

	claims := middleware.UserClaims{UserID: "c-1", Email: "empresa@mail.com", Role: domain.RoleContractor}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserClaimsKey, claims))
}

func TestUpdateHandler_UnknownField_Rejected(t *testing.T) {
	mockSvc := new(MockJobService)
	handler := NewHandler(mockSvc, logger.NewLogger("fatal"))

	w := httptest.NewRecorder()
	handler.UpdateHandler(w, patchJobRequest(`{"name":"novo","chave_invalida":"x"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_ERROR", response["category"])

	mockSvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateHandler_MalformedJSON_Rejected(t *testing.T) {
	mockSvc := new(MockJobService)
	handler := NewHandler(mockSvc, logger.NewLogger("fatal"))

	w := httptest.NewRecorder()
	handler.UpdateHandler(w, patchJobRequest(`{"name":`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateHandler_KnownFields_Accepted(t *testing.T) {
	mockSvc := new(MockJobService)
	handler := NewHandler(mockSvc, logger.NewLogger("fatal"))

	updated := domain.Job{
		ID:              "job-1",
		Name:            "novo",
		Description:     "API em Go",
		Price:           1500,
		DifficultyLevel: "mid",
		ExpirationDate:  time.Date(2026, 12, 1, 18, 0, 0, 0, time.UTC),
		ContractorID:    "c-1",
	}

	mockSvc.On("Update", mock.Anything, "job-1", mock.Anything, mock.MatchedBy(func(u domain.JobUpdate) bool {
		return u.Name != nil && *u.Name == "novo"
	})).Return(updated, nil)

	w := httptest.NewRecorder()
	handler.UpdateHandler(w, patchJobRequest(`{"name":"novo"}`))

	assert.Equal(t, http.StatusOK, w.Code)

	var response JobResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "novo", response.Name)

	mockSvc.AssertExpectations(t)
}
