// Package postgres provides a PostgreSQL-backed TaskStore implementation.
// Identifier assignment rides on a BIGSERIAL column, so uniqueness and
// commit-order monotonicity are enforced by the database itself.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/platform/logger"
	"github.com/taskwire/taskwire/internal/store"
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_task_store")),
	}
}

// List implements store.TaskStore.List.
// A single SELECT gives a consistent snapshot ordered by id.
func (s *TaskStore) List(ctx context.Context) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description FROM tasks ORDER BY id ASC`)
	if err != nil {
		log.Error("failed to list tasks", "error", err)
		return nil, store.NewStoreError("task", "list", "query failed",
			fmt.Errorf("%w: %v", store.ErrUnavailable, err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Description); err != nil {
			log.Error("failed to scan task row", "error", err)
			return nil, store.NewStoreError("task", "list", "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("task row iteration failed", "error", err)
		return nil, store.NewStoreError("task", "list", "iteration failed", err)
	}

	return tasks, nil
}

// Create implements store.TaskStore.Create.
// Domain validation runs before any database work; the insert then assigns
// the id atomically via the tasks_id_seq sequence, which never reuses or
// reorders values relative to commit order.
func (s *TaskStore) Create(ctx context.Context, title, description string) (domain.Task, error) {
	task, err := domain.NewTask(title, description)
	if err != nil {
		return domain.Task{}, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (title, description) VALUES ($1, $2) RETURNING id`,
		task.Title, task.Description,
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to insert task", "error", err)
		return domain.Task{}, store.NewStoreError("task", "create", "insert failed",
			fmt.Errorf("%w: %v", store.ErrUnavailable, err))
	}

	log.Debug("task created", "task_id", task.ID)
	return task, nil
}
