package domain

import (
	"fmt"
	"strings"
)

// Common validation errors for Task
var (
	ErrEmptyTitle = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
)

// Task represents a single immutable task record in the shared list.
// The ID is assigned by the store at commit time and is strictly positive,
// unique, and monotonically increasing across the process lifetime.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewTask builds an unsaved Task from raw input. Both fields are trimmed of
// leading/trailing whitespace; a title that is empty after trimming fails
// validation. The description may be empty. The returned Task has no ID;
// the store assigns one on Create.
func NewTask(title, description string) (Task, error) {
	task := Task{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}

	if err := task.Validate(); err != nil {
		return Task{}, err
	}

	return task, nil
}

// Validate checks the Task's fields.
// Returns an error wrapping ErrValidation if any field is invalid.
func (t Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}
