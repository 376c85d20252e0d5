package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Scanner периодически ищет незавершенные задачи, у которых срок
// уже прошел или наступает в ближайшие сутки, и пишет напоминания в лог.
// Состояние задач не трогает.
type Scanner struct {
	pool     *pgxpool.Pool
	logger   *zap.Logger
	count    int
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}
}

func NewScanner(pool *pgxpool.Pool, logger *zap.Logger, count int, interval time.Duration) *Scanner {
	return &Scanner{
		pool:     pool,
		logger:   logger,
		count:    count,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (s *Scanner) Start(ctx context.Context) {
	s.logger.Info("Starting reminder scanner", zap.Int("workers", s.count))

	for i := 0; i < s.count; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}
}

func (s *Scanner) Stop() {
	s.logger.Info("Stopping reminder scanner...")
	close(s.stop)
	s.wg.Wait()
	s.logger.Info("Reminder scanner stopped")
}

func (s *Scanner) worker(ctx context.Context, id int) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.scan(ctx, id); err != nil {
				s.logger.Error("reminder scan error", zap.Int("worker", id), zap.Error(err))
			}
		}
	}
}

func (s *Scanner) scan(ctx context.Context, workerID int) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, title, due_date
		FROM tasks
		WHERE status <> 'completed'
		  AND due_date IS NOT NULL
		  AND due_date < now() + interval '24 hours'
		ORDER BY due_date
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, ownerID string
		var title string
		var dueDate time.Time
		if err := rows.Scan(&id, &ownerID, &title, &dueDate); err != nil {
			return err
		}

		overdue := time.Until(dueDate) < 0
		s.logger.Info("Task due soon",
			zap.Int("worker", workerID),
			zap.String("task_id", id),
			zap.String("owner_id", ownerID),
			zap.String("title", title),
			zap.Time("due_date", dueDate),
			zap.Bool("overdue", overdue),
		)
	}
	return rows.Err()
}
