package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskflow/internal/model"
	"github.com/BuzzLyutic/taskflow/internal/repo"
)

var ErrForbidden = errors.New("forbidden")

// FieldError - нарушение валидации для одного поля запроса.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError собирает все нарушения разом, до любого обращения к БД.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, caller uuid.UUID, in model.TaskCreate) (model.Task, error) {
	errs := validateCreate(in)
	dueDate, dueErr := parseDueDate(in.DueDate)
	if dueErr != nil {
		errs = append(errs, *dueErr)
	}
	if len(errs) > 0 {
		return model.Task{}, &ValidationError{Fields: errs}
	}

	t := model.Task{
		OwnerID:     caller, // владелец задается один раз и только здесь
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     dueDate,
		Tags:        in.Tags,
	}
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	return s.repo.Create(ctx, t)
}

func (s *TaskService) Get(ctx context.Context, caller uuid.UUID, rawID string) (model.Task, error) {
	return s.authorizeTask(ctx, caller, rawID)
}

func (s *TaskService) List(ctx context.Context, caller uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx, caller, filter)
	if errors.Is(err, repo.ErrorInvalidSort) {
		return nil, &ValidationError{Fields: []FieldError{
			{Field: "sortBy", Message: fmt.Sprintf("unknown sort key %q", filter.SortBy)},
		}}
	}
	return tasks, err
}

func (s *TaskService) Update(ctx context.Context, caller uuid.UUID, rawID string, in model.TaskUpdate) (model.Task, error) {
	t, err := s.authorizeTask(ctx, caller, rawID)
	if err != nil {
		return t, err
	}

	errs := validateUpdate(in)
	var dueDate *time.Time
	if in.DueDate != nil {
		var dueErr *FieldError
		dueDate, dueErr = parseDueDate(*in.DueDate)
		if dueErr != nil {
			errs = append(errs, *dueErr)
		}
	}
	if len(errs) > 0 {
		return model.Task{}, &ValidationError{Fields: errs}
	}

	// Меняются только присланные поля, остальные сохраняют прежние значения
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueDate != nil {
		t.DueDate = dueDate
	}
	if in.Tags != nil {
		t.Tags = *in.Tags
	}

	return s.repo.Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, caller uuid.UUID, rawID string) error {
	t, err := s.authorizeTask(ctx, caller, rawID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, t.ID)
}

// Stats дополняет выборку нулями, чтобы все три статуса были в ответе всегда.
func (s *TaskService) Stats(ctx context.Context, caller uuid.UUID) (model.Stats, error) {
	stats, err := s.repo.Stats(ctx, caller)
	if err != nil {
		return stats, err
	}
	for _, status := range model.Statuses() {
		if _, ok := stats.ByStatus[status]; !ok {
			stats.ByStatus[status] = 0
		}
	}
	return stats, nil
}

// authorizeTask - единственная точка проверки владения для get/update/delete.
// Кривой идентификатор неотличим снаружи от несуществующего: оба дают not found.
// Чужая задача дает forbidden: ее существование намеренно не скрывается.
func (s *TaskService) authorizeTask(ctx context.Context, caller uuid.UUID, rawID string) (model.Task, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return model.Task{}, repo.ErrorNotFound
	}

	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return t, err
	}

	if t.OwnerID != caller {
		return t, ErrForbidden
	}
	return t, nil
}

func validateCreate(in model.TaskCreate) []FieldError {
	var errs []FieldError

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		errs = append(errs, FieldError{"title", "Title is required"})
	case utf8.RuneCountInString(title) < 3 || utf8.RuneCountInString(title) > 100:
		errs = append(errs, FieldError{"title", "Title must be between 3 and 100 characters"})
	}

	errs = append(errs, validateCommon(in.Description, in.Status, in.Priority)...)
	return errs
}

func validateUpdate(in model.TaskUpdate) []FieldError {
	var errs []FieldError

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if utf8.RuneCountInString(title) < 3 || utf8.RuneCountInString(title) > 100 {
			errs = append(errs, FieldError{"title", "Title must be between 3 and 100 characters"})
		}
	}

	description, status, priority := "", "", ""
	if in.Description != nil {
		description = *in.Description
	}
	if in.Status != nil {
		status = *in.Status
	}
	if in.Priority != nil {
		priority = *in.Priority
	}
	errs = append(errs, validateCommon(description, status, priority)...)
	return errs
}

func validateCommon(description, status, priority string) []FieldError {
	var errs []FieldError

	if utf8.RuneCountInString(strings.TrimSpace(description)) > 1000 {
		errs = append(errs, FieldError{"description", "Description cannot exceed 1000 characters"})
	}
	if status != "" && !model.ValidStatus(status) {
		errs = append(errs, FieldError{"status", "Invalid status"})
	}
	if priority != "" && !model.ValidPriority(priority) {
		errs = append(errs, FieldError{"priority", "Invalid priority"})
	}
	return errs
}

// parseDueDate принимает RFC 3339 или голую дату. Пустая строка - без срока.
func parseDueDate(raw string) (*time.Time, *FieldError) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts, nil
		}
	}
	return nil, &FieldError{"dueDate", "Invalid date format"}
}
