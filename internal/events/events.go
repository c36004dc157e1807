package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskwire/taskwire/internal/domain"
)

// KindTaskAdded is the event kind broadcast when a task is committed.
// It is also the frame type clients see on the wire.
const KindTaskAdded = "task.added"

// TaskAdded announces a newly committed task record. Subscribers receive
// the record by value; they never hold a reference back into the store.
type TaskAdded struct {
	// ID is a unique identifier for this event instance.
	ID uuid.UUID `json:"id"`

	// Task is the committed record being announced.
	Task domain.Task `json:"task"`

	// OccurredAt is the timestamp when the event was created,
	// after the store commit.
	OccurredAt time.Time `json:"occurred_at"`
}

// Kind returns the event kind for TaskAdded.
func (TaskAdded) Kind() string { return KindTaskAdded }

// NewTaskAdded creates a TaskAdded event for the given committed task.
func NewTaskAdded(task domain.Task) TaskAdded {
	return TaskAdded{
		ID:         uuid.New(),
		Task:       task,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher defines an interface for components that fan events out to
// connected subscribers. Delivery is best-effort and at-most-once per
// subscriber per call; a Publish error never indicates a partial store
// failure, only a broadcast-layer problem.
type Publisher interface {
	// Publish sends the event to every subscriber connected at call time.
	Publish(ctx context.Context, event TaskAdded) error
}
