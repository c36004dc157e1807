package store

import (
	"context"

	"github.com/taskwire/taskwire/internal/domain"
)

// TaskStore defines the interface for the authoritative task list.
// It owns identifier assignment: ids are strictly positive, unique, never
// reused, and increase monotonically in commit order.
type TaskStore interface {
	// List returns a consistent snapshot of all tasks ordered by id
	// ascending. It is safe to call concurrently with Create and never
	// observes a half-inserted record. Returns an empty slice when the
	// store holds no tasks.
	List(ctx context.Context) ([]domain.Task, error)

	// Create validates the input via the domain constructor, atomically
	// assigns the next id (one greater than the highest ever assigned,
	// starting at 1), and appends the record. Under concurrent calls no
	// two callers may receive the same id, and List order matches
	// assignment order.
	// Returns validation errors from the domain Task if the title is
	// blank after trimming.
	Create(ctx context.Context, title, description string) (domain.Task, error)
}
