package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/policy"
	"github.com/taskward/taskward-api/internal/service"
)

func managerCaller() policy.Caller {
	return policy.Caller{ID: uuid.New(), Role: domain.RoleManager, Active: true}
}

func userCaller() policy.Caller {
	return policy.Caller{ID: uuid.New(), Role: domain.RoleUser, Active: true}
}

func activeUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:     uuid.New(),
		Email:  "someone@example.com",
		Role:   role,
		Active: true,
	}
}

func pendingTask(assigneeID, assignerID uuid.UUID) *domain.Task {
	return &domain.Task{
		ID:         uuid.New(),
		Title:      "write the report",
		AssigneeID: assigneeID,
		AssignerID: assignerID,
		Deadline:   time.Now().UTC().Add(24 * time.Hour),
		Status:     domain.TaskStatusPending,
	}
}

func newTaskService(t *testing.T, tasks *MockTaskStore, users *MockUserStore) service.TaskService {
	t.Helper()
	svc, err := service.NewTaskService(tasks, users, slog.Default())
	require.NoError(t, err)
	return svc
}

func TestNewTaskServiceValidatesDependencies(t *testing.T) {
	t.Parallel()

	_, err := service.NewTaskService(nil, &MockUserStore{}, slog.Default())
	assert.Error(t, err)

	_, err = service.NewTaskService(&MockTaskStore{}, nil, slog.Default())
	assert.Error(t, err)

	_, err = service.NewTaskService(&MockTaskStore{}, &MockUserStore{}, nil)
	assert.Error(t, err)
}

func TestAssignCreatesPendingTask(t *testing.T) {
	t.Parallel()

	tasks := &MockTaskStore{}
	users := &MockUserStore{}
	svc := newTaskService(t, tasks, users)

	caller := managerCaller()
	assignee := activeUser(domain.RoleUser)
	users.On("GetByID", mock.Anything, assignee.ID).Return(assignee, nil)
	tasks.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(nil)

	got, err := svc.Assign(context.Background(), caller, service.AssignTaskInput{
		AssigneeID:  assignee.ID,
		Title:       "prepare onboarding docs",
		Description: "for the new hires",
		Deadline:    time.Now().UTC().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Equal(t, caller.ID, got.AssignerID)
	assert.Equal(t, assignee.ID, got.AssigneeID)
	tasks.AssertExpectations(t)
}

func TestAssignDeniedForUserRole(t *testing.T) {
	t.Parallel()

	tasks := &MockTaskStore{}
	users := &MockUserStore{}
	svc := newTaskService(t, tasks, users)

	_, err := svc.Assign(context.Background(), userCaller(), service.AssignTaskInput{
		AssigneeID: uuid.New(),
		Title:      "not yours to give",
		Deadline:   time.Now().UTC().Add(time.Hour),
	})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssignRejectsInactiveAssignee(t *testing.T) {
	t.Parallel()

	tasks := &MockTaskStore{}
	users := &MockUserStore{}
	svc := newTaskService(t, tasks, users)

	assignee := activeUser(domain.RoleUser)
	assignee.Active = false
	users.On("GetByID", mock.Anything, assignee.ID).Return(assignee, nil)

	_, err := svc.Assign(context.Background(), managerCaller(), service.AssignTaskInput{
		AssigneeID: assignee.ID,
		Title:      "task for a ghost",
		Deadline:   time.Now().UTC().Add(time.Hour),
	})
	assert.ErrorIs(t, err, service.ErrValidation)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssignRejectsNonFutureDeadline(t *testing.T) {
	t.Parallel()

	tasks := &MockTaskStore{}
	users := &MockUserStore{}
	svc := newTaskService(t, tasks, users)

	assignee := activeUser(domain.RoleUser)
	users.On("GetByID", mock.Anything, assignee.ID).Return(assignee, nil)

	for _, deadline := range []time.Time{
		time.Now().UTC().Add(-time.Hour),
		time.Now().UTC().Add(-time.Millisecond),
	} {
		_, err := svc.Assign(context.Background(), managerCaller(), service.AssignTaskInput{
			AssigneeID: assignee.ID,
			Title:      "late before it started",
			Deadline:   deadline,
		})
		assert.ErrorIs(t, err, service.ErrValidation)
	}
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateStatusByAssignee(t *testing.T) {
	t.Parallel()

	tasks := &MockTaskStore{}
	users := &MockUserStore{}
	svc := newTaskService(t, tasks, users)

	caller := userCaller()
	task := pendingTask(caller.ID, uuid.New())
	tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	tasks.On("UpdateStatus", mock.Anything, task.ID, domain.TaskStatusInProgress).Return(nil)

	got, err := svc.UpdateStatus(context.Background(), caller, task.ID, domain.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, got.Status)
	tasks.AssertExpectations(t)
}

func TestUpdateStatusDeniedForNonAssignee(t *testing.T) {
	t.Parallel()

	tasks := &MockTaskStore{}
	users := &MockUserStore{}
	svc := newTaskService(t, tasks, users)

	task := pendingTask(uuid.New(), uuid.New())
	tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)

	// Another plain user cannot touch the task, and neither can a manager:
	// status changes belong to the assignee (or an admin).
	for _, caller := range []policy.Caller{userCaller(), managerCaller()} {
		_, err := svc.UpdateStatus(context.Background(), caller, task.ID, domain.TaskStatusCompleted)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	}
	tasks.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatusAllowedForAdmin(t *testing.T) {
	t.Parallel()

	tasks := &MockTaskStore{}
	users := &MockUserStore{}
	svc := newTaskService(t, tasks, users)

	admin := policy.Caller{ID: uuid.New(), Role: domain.RoleAdmin, Active: true}
	task := pendingTask(uuid.New(), uuid.New())
	tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	tasks.On("UpdateStatus", mock.Anything, task.ID, domain.TaskStatusCompleted).Return(nil)

	got, err := svc.UpdateStatus(context.Background(), admin, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, got.Status)
}

func TestUpdateStatusRejectsInvalidTransitions(t *testing.T) {
	t.Parallel()

	caller := userCaller()

	tests := []struct {
		name    string
		from    domain.TaskStatus
		to      domain.TaskStatus
		wantErr error
	}{
		{"completed is terminal", domain.TaskStatusCompleted, domain.TaskStatusPending, domain.ErrInvalidTransition},
		{"missed is terminal", domain.TaskStatusMissed, domain.TaskStatusInProgress, domain.ErrInvalidTransition},
		{"actors cannot set missed", domain.TaskStatusPending, domain.TaskStatusMissed, domain.ErrInvalidTransition},
		{"unknown status", domain.TaskStatusPending, domain.TaskStatus("archived"), domain.ErrInvalidTaskStatus},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tasks := &MockTaskStore{}
			users := &MockUserStore{}
			svc := newTaskService(t, tasks, users)

			task := pendingTask(caller.ID, uuid.New())
			task.Status = tc.from
			tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)

			_, err := svc.UpdateStatus(context.Background(), caller, task.ID, tc.to)
			assert.ErrorIs(t, err, tc.wantErr)
			tasks.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGetTaskVisibility(t *testing.T) {
	t.Parallel()

	tasks := &MockTaskStore{}
	users := &MockUserStore{}
	svc := newTaskService(t, tasks, users)

	owner := userCaller()
	task := pendingTask(owner.ID, uuid.New())
	tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)

	got, err := svc.Get(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = svc.Get(context.Background(), userCaller(), task.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = svc.Get(context.Background(), managerCaller(), task.ID)
	assert.NoError(t, err)
}

func TestListForScopesByRole(t *testing.T) {
	t.Parallel()

	tasks := &MockTaskStore{}
	users := &MockUserStore{}
	svc := newTaskService(t, tasks, users)

	manager := managerCaller()
	all := []*domain.Task{pendingTask(uuid.New(), manager.ID)}
	tasks.On("ListAll", mock.Anything).Return(all, nil)

	got, err := svc.ListFor(context.Background(), manager)
	require.NoError(t, err)
	assert.Equal(t, all, got)

	worker := userCaller()
	own := []*domain.Task{pendingTask(worker.ID, manager.ID)}
	tasks.On("ListByAssignee", mock.Anything, worker.ID).Return(own, nil)

	got, err = svc.ListFor(context.Background(), worker)
	require.NoError(t, err)
	assert.Equal(t, own, got)

	inactive := policy.Caller{ID: uuid.New(), Role: domain.RoleUser, Active: false}
	_, err = svc.ListFor(context.Background(), inactive)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}
