package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusMissed     TaskStatus = "missed"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrEmptyAssigneeID   = errors.New("task assignee ID cannot be empty")
	ErrEmptyAssignerID   = errors.New("task assigner ID cannot be empty")
	ErrZeroDeadline      = errors.New("task deadline cannot be zero")
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidTransition is returned when a status change violates the
	// task state machine. The API layer maps it to HTTP 409.
	ErrInvalidTransition = errors.New("invalid task status transition")
)

// Task represents a unit of work assigned to a user with a deadline.
//
// Status moves among pending, in_progress, and completed by the assignee (or
// an admin). completed is terminal. missed is terminal and is only ever set
// by the overdue sweep, never through an actor-driven update.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  uuid.UUID  `json:"assignee_id"`
	AssignerID  uuid.UUID  `json:"assigner_id"`
	Deadline    time.Time  `json:"deadline"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a pending Task assigned by assignerID to assigneeID.
// Returns an error if validation fails.
func NewTask(assignerID, assigneeID uuid.UUID, title, description string, deadline time.Time) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		AssigneeID:  assigneeID,
		AssignerID:  assignerID,
		Deadline:    deadline.UTC(),
		Status:      TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.AssigneeID == uuid.Nil {
		return ErrEmptyAssigneeID
	}

	if t.AssignerID == uuid.Nil {
		return ErrEmptyAssignerID
	}

	if t.Deadline.IsZero() {
		return ErrZeroDeadline
	}

	if !ValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// Terminal reports whether no further actor-driven transition is permitted
// from the given status.
func Terminal(status TaskStatus) bool {
	return status == TaskStatusCompleted || status == TaskStatusMissed
}

// CanTransition reports whether an actor-driven status change from one status
// to another is allowed. Actors move tasks freely among pending, in_progress,
// and completed; once a task is completed or missed, nothing moves it again.
// missed is never a valid actor-driven target.
func CanTransition(from, to TaskStatus) bool {
	if Terminal(from) {
		return false
	}

	switch to {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// ApplyStatus performs an actor-driven status change, updating the UpdatedAt
// timestamp. Returns ErrInvalidTaskStatus if the target status is unknown and
// ErrInvalidTransition if the state machine forbids the move. The task is
// left unchanged on error.
func (t *Task) ApplyStatus(to TaskStatus) error {
	if !ValidTaskStatus(to) {
		return ErrInvalidTaskStatus
	}

	if !CanTransition(t.Status, to) {
		return ErrInvalidTransition
	}

	t.Status = to
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Overdue reports whether the task's deadline has passed without the task
// reaching a terminal state. Overdue tasks are what the sweep turns missed.
func (t *Task) Overdue(now time.Time) bool {
	return !Terminal(t.Status) && t.Deadline.Before(now)
}

// ValidTaskStatus checks if the given status is a valid TaskStatus.
func ValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusMissed:
		return true
	default:
		return false
	}
}
