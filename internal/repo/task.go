package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/taskflow/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (owner_id, title, description, status, priority, due_date, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taskColumns+`
	`, t.OwnerID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.Tags).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, mapError(err)
}

func (r *TaskRepo) Get(ctx context.Context, id uuid.UUID) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = $1
	`, id).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

// List возвращает все задачи владельца под фильтром, без пагинации.
func (r *TaskRepo) List(ctx context.Context, ownerID uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	query, args, err := buildListQuery(ownerID, filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.DueDate, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update перезаписывает изменяемые поля целиком: побеждает последняя запись,
// никакого версионирования.
func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5,
		    due_date = $6, tags = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns+`
	`, t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.Tags).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

// Stats считает задачи владельца по статусам. Отсутствующие в выборке
// статусы дозаполняет нулями сервис.
func (r *TaskRepo) Stats(ctx context.Context, ownerID uuid.UUID) (model.Stats, error) {
	stats := model.Stats{ByStatus: make(map[string]int, 3)}

	rows, err := r.pool.Query(ctx, `
		SELECT status, count(*) FROM tasks WHERE owner_id = $1 GROUP BY status
	`, ownerID)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	return stats, rows.Err()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return ErrorConflict
		}
	}
	return err
}
