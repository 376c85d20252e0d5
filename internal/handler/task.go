package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskflow/internal/auth"
	"github.com/BuzzLyutic/taskflow/internal/model"
	"github.com/BuzzLyutic/taskflow/internal/repo"
	"github.com/BuzzLyutic/taskflow/internal/service"
	"github.com/BuzzLyutic/taskflow/pkg/respond"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req model.TaskCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, err := h.service.Create(r.Context(), caller.UserID, req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/tasks/"+task.ID.String())
	respond.OK(w, r, http.StatusCreated, "Task created successfully", map[string]any{"task": task})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	task, err := h.service.Get(r.Context(), caller.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.OK(w, r, http.StatusOK, "", map[string]any{"task": task})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	q := r.URL.Query()
	filter := model.TaskFilter{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	}

	tasks, err := h.service.List(r.Context(), caller.UserID, filter)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.List(w, r, len(tasks), map[string]any{"tasks": tasks})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req model.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := h.service.Update(r.Context(), caller.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.OK(w, r, http.StatusOK, "Task updated successfully", map[string]any{"task": task})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.service.Delete(r.Context(), caller.UserID, chi.URLParam(r, "id")); err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.OK(w, r, http.StatusOK, "Task deleted successfully", map[string]any{})
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Not authorized")
		return
	}

	stats, err := h.service.Stats(r.Context(), caller.UserID)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.OK(w, r, http.StatusOK, "", map[string]any{"stats": stats})
}

// handleErrors - общий маппинг ошибок сервиса в статусы и конверт ответа.
func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError

	switch {
	case errors.As(err, &vErr):
		respond.ValidationError(w, r, fieldErrors(vErr))
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "Task not found")
	case errors.Is(err, service.ErrForbidden):
		respond.Error(w, r, http.StatusForbidden, "Not authorized to access this task")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Internal(w, r, "internal error", err)
	}
}

func fieldErrors(vErr *service.ValidationError) []respond.FieldError {
	out := make([]respond.FieldError, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		out = append(out, respond.FieldError{Field: f.Field, Message: f.Message})
	}
	return out
}
