package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskward/taskward-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]*domain.User, error)

	// Update modifies an existing user's role, active flag, and missed-task
	// count. Returns ErrUserNotFound if the user does not exist and
	// validation errors from the domain User if data is invalid.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	// This operation is permanent and cannot be undone.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetActive flips the user's active flag. When reactivating (active =
	// true) the missed-task count is reset to zero in the same update, so a
	// reactivated user starts with a clean slate.
	// Returns ErrUserNotFound if the user does not exist.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// IncrementMissedCount atomically increments the user's missed-task
	// count, deactivating the user in the same row update when the new
	// count reaches domain.MissedTaskThreshold. There is no observable
	// state where the count is at or past the threshold and the user is
	// still active, and concurrent increments never lose updates.
	// Returns the new count and the resulting active flag.
	// Returns ErrUserNotFound if the user does not exist.
	IncrementMissedCount(ctx context.Context, id uuid.UUID) (count int, active bool, err error)

	// FindNotificationFallback returns the user who should receive overdue
	// notifications when a task's original assigner can no longer act as a
	// manager: the earliest-created active manager, or failing that the
	// earliest-created active admin.
	// Returns ErrUserNotFound if no active manager or admin exists.
	FindNotificationFallback(ctx context.Context) (*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction, so multiple operations can share a single transaction
	// created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
