package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/platform/logger"
	"github.com/taskward/taskward-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = "id, title, description, assignee_id, assigner_id, deadline, status, created_at, updated_at"

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.AssigneeID,
		task.AssignerID,
		task.Deadline,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("assignee_id", task.AssigneeID.String()))
			return fmt.Errorf("%w: assignee or assigner not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("assignee_id", task.AssigneeID.String()),
		slog.Time("deadline", task.Deadline))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var task domain.Task
	var status string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.AssigneeID,
		&task.AssignerID,
		&task.Deadline,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	return &task, nil
}

// ListByAssignee implements store.TaskStore.ListByAssignee
func (s *PostgresTaskStore) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE assignee_id = $1 ORDER BY created_at DESC`
	return s.queryTasks(ctx, query, assigneeID)
}

// ListAll implements store.TaskStore.ListAll
func (s *PostgresTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC`
	return s.queryTasks(ctx, query)
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *PostgresTaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !domain.ValidTaskStatus(status) {
		return domain.ErrInvalidTaskStatus
	}

	query := `UPDATE tasks SET status = $1, updated_at = now() WHERE id = $2`
	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()),
			slog.String("status", string(status)))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	log.Info("task status updated",
		slog.String("task_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// ListOverdue implements store.TaskStore.ListOverdue
func (s *PostgresTaskStore) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status IN ($1, $2) AND deadline < $3
		ORDER BY deadline ASC
	`
	return s.queryTasks(ctx, query, domain.TaskStatusPending, domain.TaskStatusInProgress, now.UTC())
}

// MarkMissed implements store.TaskStore.MarkMissed.
// The status guard in the WHERE clause makes the transition race-free: of
// two concurrent passes over the same task, exactly one observes a row
// transition.
func (s *PostgresTaskStore) MarkMissed(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status IN ($3, $4)
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		domain.TaskStatusMissed,
		id,
		domain.TaskStatusPending,
		domain.TaskStatusInProgress,
	)
	if err != nil {
		log.Error("failed to mark task missed",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Either the task is gone or it already reached a terminal status.
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists); err != nil {
			return false, err
		}
		if !exists {
			return false, store.ErrTaskNotFound
		}
		return false, nil
	}

	log.Info("task marked missed", slog.String("task_id", id.String()))
	return true, nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryTasks runs a multi-row task query and scans the results.
func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		var status string
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.AssigneeID,
			&task.AssignerID,
			&task.Deadline,
			&status,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		task.Status = domain.TaskStatus(status)
		tasks = append(tasks, &task)
	}

	return tasks, rows.Err()
}
