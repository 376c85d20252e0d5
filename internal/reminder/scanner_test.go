package reminder

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)

	pool.Exec(context.Background(), "TRUNCATE tasks, users CASCADE")
	return pool
}

func seedTask(t *testing.T, pool *pgxpool.Pool, title, status string, due *time.Time) {
	t.Helper()
	ctx := context.Background()

	var ownerID uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ('Reminder User', $1, 'x')
		RETURNING id
	`, uuid.NewString()+"@example.com").Scan(&ownerID)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO tasks (owner_id, title, status, priority, due_date)
		VALUES ($1, $2, $3, 'medium', $4)
	`, ownerID, title, status, due)
	require.NoError(t, err)
}

func TestScanner_LogsDueTasks(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	overdue := time.Now().Add(-2 * time.Hour)
	soon := time.Now().Add(3 * time.Hour)
	farAway := time.Now().Add(72 * time.Hour)

	seedTask(t, pool, "Overdue task", "pending", &overdue)
	seedTask(t, pool, "Due soon", "in-progress", &soon)
	seedTask(t, pool, "Far away", "pending", &farAway)
	seedTask(t, pool, "Finished anyway", "completed", &overdue)
	seedTask(t, pool, "No deadline", "pending", nil)

	core, logs := observer.New(zap.InfoLevel)
	scanner := NewScanner(pool, zap.New(core), 1, time.Hour)

	require.NoError(t, scanner.scan(context.Background(), 0))

	entries := logs.FilterMessage("Task due soon").All()
	require.Len(t, entries, 2)

	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		titles = append(titles, e.ContextMap()["title"].(string))
	}
	assert.ElementsMatch(t, []string{"Overdue task", "Due soon"}, titles)
}

func TestScanner_StartStop(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	scanner := NewScanner(pool, zap.NewNop(), 2, 10*time.Millisecond)
	scanner.Start(context.Background())

	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		scanner.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scanner did not stop in time")
	}
}
