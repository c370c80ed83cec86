package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskward/taskward-api/internal/domain"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	assigner := uuid.New()
	assignee := uuid.New()
	deadline := time.Now().UTC().Add(24 * time.Hour)

	task, err := domain.NewTask(assigner, assignee, "Quarterly report", "Compile Q3 figures", deadline)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, assignee, task.AssigneeID)
	assert.Equal(t, assigner, task.AssignerID)
	assert.WithinDuration(t, deadline, task.Deadline, time.Second)
}

func TestNewTaskValidation(t *testing.T) {
	t.Parallel()

	assigner := uuid.New()
	assignee := uuid.New()
	deadline := time.Now().UTC().Add(time.Hour)

	tests := []struct {
		name     string
		assigner uuid.UUID
		assignee uuid.UUID
		title    string
		deadline time.Time
		wantErr  error
	}{
		{"empty title", assigner, assignee, "", deadline, domain.ErrEmptyTaskTitle},
		{"nil assignee", assigner, uuid.Nil, "t", deadline, domain.ErrEmptyAssigneeID},
		{"nil assigner", uuid.Nil, assignee, "t", deadline, domain.ErrEmptyAssignerID},
		{"zero deadline", assigner, assignee, "t", time.Time{}, domain.ErrZeroDeadline},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewTask(tc.assigner, tc.assignee, tc.title, "", tc.deadline)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    domain.TaskStatus
		to      domain.TaskStatus
		allowed bool
	}{
		{"pending to in_progress", domain.TaskStatusPending, domain.TaskStatusInProgress, true},
		{"pending to completed", domain.TaskStatusPending, domain.TaskStatusCompleted, true},
		{"in_progress to completed", domain.TaskStatusInProgress, domain.TaskStatusCompleted, true},
		{"in_progress back to pending", domain.TaskStatusInProgress, domain.TaskStatusPending, true},
		{"completed is terminal", domain.TaskStatusCompleted, domain.TaskStatusPending, false},
		{"completed to in_progress", domain.TaskStatusCompleted, domain.TaskStatusInProgress, false},
		{"missed is terminal", domain.TaskStatusMissed, domain.TaskStatusPending, false},
		{"missed to completed", domain.TaskStatusMissed, domain.TaskStatusCompleted, false},
		{"no actor-driven missed", domain.TaskStatusPending, domain.TaskStatusMissed, false},
		{"in_progress to missed", domain.TaskStatusInProgress, domain.TaskStatusMissed, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, domain.CanTransition(tc.from, tc.to))
		})
	}
}

func TestApplyStatusLeavesTaskUnchangedOnError(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask(uuid.New(), uuid.New(), "t", "", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, task.ApplyStatus(domain.TaskStatusCompleted))

	before := *task
	err = task.ApplyStatus(domain.TaskStatusInProgress)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, before, *task)

	err = task.ApplyStatus(domain.TaskStatus("archived"))
	assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
	assert.Equal(t, before, *task)
}

func TestOverdue(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	task, err := domain.NewTask(uuid.New(), uuid.New(), "t", "", now.Add(time.Minute))
	require.NoError(t, err)

	assert.False(t, task.Overdue(now))
	assert.True(t, task.Overdue(now.Add(2*time.Minute)))

	// Completed tasks are never overdue, regardless of deadline.
	require.NoError(t, task.ApplyStatus(domain.TaskStatusCompleted))
	assert.False(t, task.Overdue(now.Add(2*time.Minute)))
}
