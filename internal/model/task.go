package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Статусы и приоритеты задачи
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Statuses перечисляет известные статусы в фиксированном порядке.
func Statuses() []string {
	return []string{StatusPending, StatusInProgress, StatusCompleted}
}

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"user"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskFilter - параметры листинга. Пустая строка означает "фильтр не задан".
type TaskFilter struct {
	Search   string
	Status   string
	Priority string
	SortBy   string
	Order    string
}

// TaskCreate - тело запроса создания. DueDate приходит строкой,
// чтобы кривая дата давала ошибку валидации поля, а не ошибку JSON.
type TaskCreate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"dueDate"`
	Tags        []string `json:"tags"`
}

// TaskUpdate - частичное обновление: nil-поле остается без изменений.
type TaskUpdate struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	Priority    *string   `json:"priority"`
	DueDate     *string   `json:"dueDate"`
	Tags        *[]string `json:"tags"`
}

// Stats - количество задач по статусам одного пользователя.
// В JSON уходит плоским объектом: {"total":N,"pending":N,...},
// все три статуса присутствуют всегда, даже с нулями.
type Stats struct {
	Total    int
	ByStatus map[string]int
}

func (s Stats) MarshalJSON() ([]byte, error) {
	out := map[string]int{"total": s.Total}
	for _, st := range Statuses() {
		out[st] = s.ByStatus[st]
	}
	return json.Marshal(out)
}

func (s *Stats) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Total = raw["total"]
	s.ByStatus = make(map[string]int, 3)
	for _, st := range Statuses() {
		s.ByStatus[st] = raw[st]
	}
	return nil
}
