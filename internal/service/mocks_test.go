package service_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/store"
)

// MockTaskStore is a testify mock for store.TaskStore.
type MockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	var task *domain.Task
	if args.Get(0) != nil {
		task = args.Get(0).(*domain.Task)
	}
	return task, args.Error(1)
}

func (m *MockTaskStore) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, assigneeID)
	var tasks []*domain.Task
	if args.Get(0) != nil {
		tasks = args.Get(0).([]*domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *MockTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	args := m.Called(ctx)
	var tasks []*domain.Task
	if args.Get(0) != nil {
		tasks = args.Get(0).([]*domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *MockTaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTaskStore) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	args := m.Called(ctx, now)
	var tasks []*domain.Task
	if args.Get(0) != nil {
		tasks = args.Get(0).([]*domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *MockTaskStore) MarkMissed(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	args := m.Called(tx)
	return args.Get(0).(store.TaskStore)
}

// MockUserStore is a testify mock for store.UserStore.
type MockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	var users []*domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]*domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserStore) IncrementMissedCount(ctx context.Context, id uuid.UUID) (int, bool, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockUserStore) FindNotificationFallback(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	args := m.Called(tx)
	return args.Get(0).(store.UserStore)
}

// stubHasher satisfies auth.PasswordHasher without real bcrypt work.
type stubHasher struct {
	err error
}

func (s *stubHasher) Hash(password string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "hashed:" + password, nil
}
