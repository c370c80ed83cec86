package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/platform/logger"
	"github.com/taskward/taskward-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

const userColumns = "id, email, hashed_password, role, active, missed_task_count, created_at, updated_at"

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.Active,
		user.MissedTaskCount,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, email))
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var role string
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.HashedPassword,
			&role,
			&user.Active,
			&user.MissedTaskCount,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		user.Role = domain.Role(role)
		users = append(users, &user)
	}

	return users, rows.Err()
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		UPDATE users
		SET email = $1, hashed_password = $2, role = $3, active = $4,
		    missed_task_count = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.Active,
		user.MissedTaskCount,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	return s.requireRowAffected(result, store.ErrUserNotFound)
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	if err := s.requireRowAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Info("user deleted", slog.String("user_id", id.String()))
	return nil
}

// SetActive implements store.UserStore.SetActive.
// Reactivation resets the missed-task count so the explicit manager action
// gives the user a clean slate; deactivation leaves the count untouched.
func (s *PostgresUserStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET active = $1,
		    missed_task_count = CASE WHEN $1 THEN 0 ELSE missed_task_count END,
		    updated_at = now()
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, active, id)
	if err != nil {
		log.Error("failed to set user active flag",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()),
			slog.Bool("active", active))
		return err
	}

	if err := s.requireRowAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Info("user active flag updated",
		slog.String("user_id", id.String()),
		slog.Bool("active", active))
	return nil
}

// IncrementMissedCount implements store.UserStore.IncrementMissedCount.
// The increment and the threshold-triggered deactivation happen in a single
// row update, so concurrent sweeps can neither lose an increment nor observe
// a user at the threshold who is still active.
func (s *PostgresUserStore) IncrementMissedCount(ctx context.Context, id uuid.UUID) (int, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET missed_task_count = missed_task_count + 1,
		    active = CASE WHEN missed_task_count + 1 >= $1 THEN FALSE ELSE active END,
		    updated_at = now()
		WHERE id = $2
		RETURNING missed_task_count, active
	`

	var count int
	var active bool
	err := s.db.QueryRowContext(ctx, query, domain.MissedTaskThreshold, id).Scan(&count, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, store.ErrUserNotFound
		}
		log.Error("failed to increment missed task count",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return 0, false, err
	}

	log.Info("missed task count incremented",
		slog.String("user_id", id.String()),
		slog.Int("missed_task_count", count),
		slog.Bool("active", active))
	return count, active, nil
}

// FindNotificationFallback implements store.UserStore.FindNotificationFallback.
// Managers are preferred over admins as the operationally closer recipient;
// within a role, the earliest-created active user wins so the choice is
// deterministic.
func (s *PostgresUserStore) FindNotificationFallback(ctx context.Context) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE active = TRUE AND role IN ('manager', 'admin')
		ORDER BY CASE role WHEN 'manager' THEN 0 ELSE 1 END, created_at ASC
		LIMIT 1
	`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query))
}

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanUser reads a single user row, mapping sql.ErrNoRows to
// store.ErrUserNotFound.
func (s *PostgresUserStore) scanUser(ctx context.Context, row *sql.Row) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	var role string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&role,
		&user.Active,
		&user.MissedTaskCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to scan user row", slog.String("error", err.Error()))
		return nil, err
	}

	user.Role = domain.Role(role)
	return &user, nil
}

// requireRowAffected turns a zero-row update or delete into the given
// not-found error.
func (s *PostgresUserStore) requireRowAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
