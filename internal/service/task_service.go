package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/policy"
	"github.com/taskward/taskward-api/internal/store"
)

// AssignTaskInput carries the fields for assigning a new task.
type AssignTaskInput struct {
	AssigneeID  uuid.UUID
	Title       string
	Description string
	Deadline    time.Time
}

// TaskService provides the task lifecycle operations: assignment and
// actor-driven status updates, both behind policy checks.
type TaskService interface {
	// Assign creates a pending task for the assignee with the caller as
	// assigner. Returns ErrPermissionDenied unless the policy grants the
	// caller the assign action, and ErrValidation if the deadline is not
	// strictly in the future or the assignee is inactive.
	Assign(ctx context.Context, caller policy.Caller, in AssignTaskInput) (*domain.Task, error)

	// UpdateStatus applies an actor-driven status change. Returns
	// ErrPermissionDenied unless the caller is the task's assignee or an
	// admin, and domain.ErrInvalidTransition (or
	// domain.ErrInvalidTaskStatus) if the state machine forbids the move.
	UpdateStatus(ctx context.Context, caller policy.Caller, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// Get retrieves a single task, subject to the view policy.
	Get(ctx context.Context, caller policy.Caller, taskID uuid.UUID) (*domain.Task, error)

	// ListFor returns the tasks visible to the caller: their own tasks for
	// the user role, every task for managers and admins.
	ListFor(ctx context.Context, caller policy.Caller) ([]*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(tasks store.TaskStore, users store.UserStore, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &taskServiceImpl{
		tasks:  tasks,
		users:  users,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// Assign implements TaskService.Assign
func (s *taskServiceImpl) Assign(ctx context.Context, caller policy.Caller, in AssignTaskInput) (*domain.Task, error) {
	if err := policy.Authorize(caller, policy.ActionAssignTask, policy.Resource{OwnerID: in.AssigneeID}); err != nil {
		return nil, ErrPermissionDenied
	}

	assignee, err := s.users.GetByID(ctx, in.AssigneeID)
	if err != nil {
		return nil, err
	}

	if !assignee.Active {
		return nil, fmt.Errorf("%w: cannot assign a task to a deactivated user", ErrValidation)
	}

	if !in.Deadline.After(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: deadline must be in the future", ErrValidation)
	}

	task, err := domain.NewTask(caller.ID, in.AssigneeID, in.Title, in.Description, in.Deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task assigned",
		slog.String("task_id", task.ID.String()),
		slog.String("assigner_id", caller.ID.String()),
		slog.String("assignee_id", in.AssigneeID.String()))
	return task, nil
}

// UpdateStatus implements TaskService.UpdateStatus
func (s *taskServiceImpl) UpdateStatus(ctx context.Context, caller policy.Caller, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(caller, policy.ActionUpdateTaskStatus, policy.Resource{OwnerID: task.AssigneeID}); err != nil {
		return nil, ErrPermissionDenied
	}

	if err := task.ApplyStatus(status); err != nil {
		return nil, err
	}

	if err := s.tasks.UpdateStatus(ctx, task.ID, task.Status); err != nil {
		return nil, err
	}

	s.logger.Info("task status changed",
		slog.String("task_id", task.ID.String()),
		slog.String("caller_id", caller.ID.String()),
		slog.String("status", string(task.Status)))
	return task, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, caller policy.Caller, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(caller, policy.ActionViewTask, policy.Resource{OwnerID: task.AssigneeID}); err != nil {
		return nil, ErrPermissionDenied
	}

	return task, nil
}

// ListFor implements TaskService.ListFor
func (s *taskServiceImpl) ListFor(ctx context.Context, caller policy.Caller) ([]*domain.Task, error) {
	if policy.Authorize(caller, policy.ActionListAllTasks, policy.Resource{}) == nil {
		return s.tasks.ListAll(ctx)
	}

	// Users fall back to their own task list, which is always visible to
	// an active caller.
	if err := policy.Authorize(caller, policy.ActionViewTask, policy.Resource{OwnerID: caller.ID}); err != nil {
		return nil, ErrPermissionDenied
	}

	return s.tasks.ListByAssignee(ctx, caller.ID)
}
