// Package memory provides the default in-memory TaskStore implementation.
// State lives for the process lifetime only; there are no durability
// guarantees beyond that.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/platform/logger"
	"github.com/taskwire/taskwire/internal/store"
)

// TaskStore is a mutex-guarded in-memory implementation of store.TaskStore.
// The assign-id-then-append sequence in Create runs under a single lock, so
// id assignment is linearizable with respect to all concurrent creates and
// List never observes a half-inserted record.
type TaskStore struct {
	mu     sync.Mutex
	tasks  []domain.Task
	lastID int64

	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty in-memory task store.
// If logger is nil, a default logger will be used.
func NewTaskStore(logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
}

// List implements store.TaskStore.List.
// It returns a copy of the current task slice taken under the lock, so the
// caller's snapshot is immune to later writes.
func (s *TaskStore) List(ctx context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]domain.Task, len(s.tasks))
	copy(snapshot, s.tasks)
	return snapshot, nil
}

// Create implements store.TaskStore.Create.
// Validation happens before the lock is taken; a rejected create leaves the
// store untouched. Ids start at 1 and are one greater than the highest ever
// assigned, so they never repeat and List order matches assignment order.
func (s *TaskStore) Create(ctx context.Context, title, description string) (domain.Task, error) {
	task, err := domain.NewTask(title, description)
	if err != nil {
		return domain.Task{}, err
	}

	s.mu.Lock()
	s.lastID++
	task.ID = s.lastID
	s.tasks = append(s.tasks, task)
	count := len(s.tasks)
	s.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("task created",
		"task_id", task.ID,
		"task_count", count)
	return task, nil
}
