package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/events"
	"github.com/taskwire/taskwire/internal/store"
)

// Summarizer produces a summary of a task list snapshot. It always returns
// a non-empty string (see the summary package's fallback chain).
type Summarizer interface {
	Summarize(ctx context.Context, tasks []domain.Task) string
}

// TaskService provides the list/create/summarize operations.
type TaskService interface {
	// List returns the full ordered task list.
	List(ctx context.Context) ([]domain.Task, error)

	// Create validates and commits a new task, then broadcasts it to
	// connected subscribers. The broadcast happens strictly after the
	// store commit; a broadcast problem never fails the create.
	Create(ctx context.Context, title, description string) (domain.Task, error)

	// Summarize returns a natural-language summary of the current list.
	// It never fails: storage or provider trouble degrades the result
	// rather than producing an error.
	Summarize(ctx context.Context) string
}

// taskService is the production TaskService implementation.
type taskService struct {
	store      store.TaskStore
	publisher  events.Publisher
	summarizer Summarizer
	logger     *slog.Logger
}

// NewTaskService creates a TaskService wired to the given collaborators.
// Returns an error if any required dependency is nil.
func NewTaskService(
	taskStore store.TaskStore,
	publisher events.Publisher,
	summarizer Summarizer,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if publisher == nil {
		return nil, errors.New("publisher cannot be nil")
	}
	if summarizer == nil {
		return nil, errors.New("summarizer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskService{
		store:      taskStore,
		publisher:  publisher,
		summarizer: summarizer,
		logger:     logger.With("component", "task_service"),
	}, nil
}

// List implements TaskService.List by returning the store snapshot verbatim.
func (s *taskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.store.List(ctx)
}

// Create implements TaskService.Create with commit-then-broadcast ordering:
// the event is published only after the store has durably assigned an id,
// never the reverse. Validation failures leave both store and publisher
// untouched.
func (s *taskService) Create(ctx context.Context, title, description string) (domain.Task, error) {
	task, err := s.store.Create(ctx, title, description)
	if err != nil {
		return domain.Task{}, err
	}

	if err := s.publisher.Publish(ctx, events.NewTaskAdded(task)); err != nil {
		// Delivery problems are local to the broadcast layer; clients
		// repair their view via snapshot re-fetch.
		s.logger.Warn("failed to broadcast task",
			"error", err,
			"task_id", task.ID)
	}

	return task, nil
}

// Summarize implements TaskService.Summarize. A failed snapshot read is
// logged and degraded to summarizing an empty list, so the operation always
// yields a usable string.
func (s *taskService) Summarize(ctx context.Context) string {
	tasks, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to read task snapshot for summary", "error", err)
		tasks = nil
	}
	return s.summarizer.Summarize(ctx, tasks)
}
