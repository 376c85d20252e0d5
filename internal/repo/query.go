package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskflow/internal/model"
)

var ErrorInvalidSort = errors.New("invalid sort key")

// sortColumns - явный allow-list ключей сортировки. Все, что не здесь,
// отклоняется до похода в БД, сырые имена колонок от клиента не принимаем.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"priority":  "priority",
	"status":    "status",
}

const taskColumns = "id, owner_id, title, description, status, priority, due_date, tags, created_at, updated_at"

// buildListQuery собирает запрос листинга. Предикат owner_id присутствует
// всегда, остальные условия добавляются только при непустых значениях фильтра.
func buildListQuery(ownerID uuid.UUID, f model.TaskFilter) (string, []any, error) {
	var sb strings.Builder
	args := []any{ownerID}

	sb.WriteString("SELECT " + taskColumns + " FROM tasks WHERE owner_id = $1")

	if f.Status != "" {
		args = append(args, f.Status)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		fmt.Fprintf(&sb, " AND priority = $%d", len(args))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		fmt.Fprintf(&sb, " AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return "", nil, ErrorInvalidSort
	}

	// Любое значение кроме "asc" означает убывание, без ошибки.
	direction := "DESC"
	if f.Order == "asc" {
		direction = "ASC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, id %s", column, direction, direction)

	return sb.String(), args, nil
}

// escapeLike экранирует спецсимволы ILIKE, чтобы поиск был подстрочным буквально.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
