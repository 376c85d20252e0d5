package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskflow/internal/auth"
	"github.com/BuzzLyutic/taskflow/internal/model"
	"github.com/BuzzLyutic/taskflow/internal/repo"
	"github.com/BuzzLyutic/taskflow/internal/service"
)

// mockTaskRepo - мок репозитория для хэндлеров
type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockTaskRepo) Get(ctx context.Context, id uuid.UUID) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockTaskRepo) List(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *mockTaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTaskRepo) Stats(ctx context.Context, ownerID uuid.UUID) (model.Stats, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(model.Stats), args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func setupHandler(t *testing.T) (*TaskHandler, *mockTaskRepo) {
	t.Helper()
	mockRepo := new(mockTaskRepo)
	return NewTaskHandler(service.NewTaskService(mockRepo), zap.NewNop()), mockRepo
}

// authedRequest кладет Identity в контекст так, как это делает RequireAuth.
func authedRequest(method, target string, body any, caller uuid.UUID) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: caller}))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func TestTaskHandler_Create(t *testing.T) {
	caller := uuid.New()

	t.Run("successful creation", func(t *testing.T) {
		handler, mockRepo := setupHandler(t)
		created := model.Task{
			ID:       uuid.New(),
			OwnerID:  caller,
			Title:    "Test Task",
			Status:   model.StatusPending,
			Priority: model.PriorityMedium,
			Tags:     []string{},
		}
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(created, nil)

		req := authedRequest(http.MethodPost, "/api/tasks", model.TaskCreate{Title: "Test Task"}, caller)
		w := httptest.NewRecorder()
		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/api/tasks/")

		env := decodeEnvelope(t, w)
		assert.True(t, env.Success)

		var data struct {
			Task model.Task `json:"task"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, created.ID, data.Task.ID)
	})

	t.Run("empty body", func(t *testing.T) {
		handler, _ := setupHandler(t)
		req := authedRequest(http.MethodPost, "/api/tasks", nil, caller)
		w := httptest.NewRecorder()
		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation errors listed per field", func(t *testing.T) {
		handler, mockRepo := setupHandler(t)

		req := authedRequest(http.MethodPost, "/api/tasks", model.TaskCreate{
			Title:    "ab",
			Priority: "urgent",
		}, caller)
		w := httptest.NewRecorder()
		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Success)

		fields := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			fields = append(fields, e.Field)
		}
		assert.ElementsMatch(t, []string{"title", "priority"}, fields)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("unauthenticated context", func(t *testing.T) {
		handler, _ := setupHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader([]byte(`{}`)))
		w := httptest.NewRecorder()
		handler.Create(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTaskHandler_Get(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	taskID := uuid.New()
	stored := model.Task{ID: taskID, OwnerID: owner, Title: "Guarded"}

	t.Run("owner gets the task", func(t *testing.T) {
		handler, mockRepo := setupHandler(t)
		mockRepo.On("Get", mock.Anything, taskID).Return(stored, nil)

		req := withURLParam(authedRequest(http.MethodGet, "/api/tasks/"+taskID.String(), nil, owner), "id", taskID.String())
		w := httptest.NewRecorder()
		handler.Get(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("foreign task is forbidden", func(t *testing.T) {
		handler, mockRepo := setupHandler(t)
		mockRepo.On("Get", mock.Anything, taskID).Return(stored, nil)

		req := withURLParam(authedRequest(http.MethodGet, "/api/tasks/"+taskID.String(), nil, stranger), "id", taskID.String())
		w := httptest.NewRecorder()
		handler.Get(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed id is not found, not 500", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := withURLParam(authedRequest(http.MethodGet, "/api/tasks/not-a-uuid", nil, owner), "id", "not-a-uuid")
		w := httptest.NewRecorder()
		handler.Get(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing task is not found", func(t *testing.T) {
		handler, mockRepo := setupHandler(t)
		missing := uuid.New()
		mockRepo.On("Get", mock.Anything, missing).Return(model.Task{}, repo.ErrorNotFound)

		req := withURLParam(authedRequest(http.MethodGet, "/api/tasks/"+missing.String(), nil, owner), "id", missing.String())
		w := httptest.NewRecorder()
		handler.Get(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_List(t *testing.T) {
	caller := uuid.New()

	t.Run("query params map onto the filter", func(t *testing.T) {
		handler, mockRepo := setupHandler(t)
		wantFilter := model.TaskFilter{
			Search:   "milk",
			Status:   "pending",
			Priority: "low",
			SortBy:   "dueDate",
			Order:    "asc",
		}
		mockRepo.On("List", mock.Anything, caller, wantFilter).Return([]model.Task{}, nil)

		req := authedRequest(http.MethodGet,
			"/api/tasks?search=milk&status=pending&priority=low&sortBy=dueDate&order=asc", nil, caller)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("count matches the list", func(t *testing.T) {
		handler, mockRepo := setupHandler(t)
		tasks := []model.Task{
			{ID: uuid.New(), OwnerID: caller, Title: "One"},
			{ID: uuid.New(), OwnerID: caller, Title: "Two"},
		}
		mockRepo.On("List", mock.Anything, caller, mock.Anything).Return(tasks, nil)

		req := authedRequest(http.MethodGet, "/api/tasks", nil, caller)
		w := httptest.NewRecorder()
		handler.List(w, req)

		env := decodeEnvelope(t, w)
		assert.True(t, env.Success)
		assert.Equal(t, 2, env.Count)
	})

	t.Run("bad sort key is a validation error", func(t *testing.T) {
		handler, mockRepo := setupHandler(t)
		mockRepo.On("List", mock.Anything, caller, mock.Anything).Return(nil, repo.ErrorInvalidSort)

		req := authedRequest(http.MethodGet, "/api/tasks?sortBy=bogus", nil, caller)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	owner := uuid.New()
	taskID := uuid.New()
	stored := model.Task{ID: taskID, OwnerID: owner, Title: "Doomed"}

	handler, mockRepo := setupHandler(t)
	mockRepo.On("Get", mock.Anything, taskID).Return(stored, nil)
	mockRepo.On("Delete", mock.Anything, taskID).Return(nil)

	req := withURLParam(authedRequest(http.MethodDelete, "/api/tasks/"+taskID.String(), nil, owner), "id", taskID.String())
	w := httptest.NewRecorder()
	handler.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	mockRepo.AssertExpectations(t)
}

func TestTaskHandler_Stats(t *testing.T) {
	caller := uuid.New()
	handler, mockRepo := setupHandler(t)
	mockRepo.On("Stats", mock.Anything, caller).Return(model.Stats{
		Total:    1,
		ByStatus: map[string]int{model.StatusPending: 1},
	}, nil)

	req := authedRequest(http.MethodGet, "/api/tasks/stats/summary", nil, caller)
	w := httptest.NewRecorder()
	handler.Stats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	var data struct {
		Stats map[string]int `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	// Все три статуса в ответе, даже нулевые
	assert.Equal(t, 1, data.Stats["total"])
	assert.Equal(t, 1, data.Stats["pending"])
	assert.Equal(t, 0, data.Stats["in-progress"])
	assert.Equal(t, 0, data.Stats["completed"])
}
