package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskward/taskward-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid and
	// ErrInvalidEntity if the assignee or assigner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByAssignee returns all tasks assigned to the given user,
	// newest first.
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error)

	// ListAll returns all tasks, newest first.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// UpdateStatus replaces the task's status. The caller is responsible
	// for having validated the transition against the domain state machine.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error

	// ListOverdue returns tasks whose deadline is strictly before now and
	// whose status is still pending or in_progress. This is the sweep's
	// scan predicate: tasks already missed or completed never appear.
	ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error)

	// MarkMissed transitions the task to missed if and only if it is still
	// in a non-terminal status. Returns true when the task was transitioned
	// by this call and false when another pass already reached it, which is
	// what makes the sweep idempotent per task.
	// Returns ErrTaskNotFound if the task does not exist.
	MarkMissed(ctx context.Context, id uuid.UUID) (bool, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction, so multiple operations can share a single transaction
	// created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
