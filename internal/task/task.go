package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypePersistReview is the task type for writing post-grading
	// scheduling state to the store.
	TaskTypePersistReview = "persist_review"

	// TaskTypePersistProfile is the task type for writing the learner
	// profile to the store.
	TaskTypePersistProfile = "persist_profile"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// FuncTask wraps a closure as a Task. It is the common case for
// fire-and-forget persistence work where the payload is already captured
// by the closure.
type FuncTask struct {
	id       uuid.UUID
	taskType string
	fn       func(ctx context.Context) error
}

// NewFuncTask creates a task with a fresh ID around the given closure.
func NewFuncTask(taskType string, fn func(ctx context.Context) error) *FuncTask {
	return &FuncTask{
		id:       uuid.New(),
		taskType: taskType,
		fn:       fn,
	}
}

// ID returns the task's unique identifier.
func (t *FuncTask) ID() uuid.UUID { return t.id }

// Type returns the task type identifier.
func (t *FuncTask) Type() string { return t.taskType }

// Execute runs the wrapped closure.
func (t *FuncTask) Execute(ctx context.Context) error { return t.fn(ctx) }
