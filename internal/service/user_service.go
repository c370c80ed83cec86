package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/policy"
	"github.com/taskward/taskward-api/internal/service/auth"
	"github.com/taskward/taskward-api/internal/store"
)

// UpdateUserInput carries the administrative fields a manager or admin may
// change on a user. Nil fields are left untouched.
type UpdateUserInput struct {
	Role   *domain.Role
	Active *bool
}

// UserService provides user registration and role-gated administration.
type UserService interface {
	// Register creates a new account with the default user role. Returns
	// store.ErrEmailExists when the email is taken and ErrValidation for
	// malformed input.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Get retrieves a user record, subject to the view policy: users see
	// only themselves, managers and admins see anyone.
	Get(ctx context.Context, caller policy.Caller, id uuid.UUID) (*domain.User, error)

	// List returns all users. Manager/admin only.
	List(ctx context.Context, caller policy.Caller) ([]*domain.User, error)

	// Update changes a user's role or active flag. Managers may not modify
	// admins. Role values outside admin/manager/user are rejected with
	// ErrValidation.
	Update(ctx context.Context, caller policy.Caller, id uuid.UUID, in UpdateUserInput) (*domain.User, error)

	// Delete removes a user. Manager/admin only; managers may not delete
	// admins.
	Delete(ctx context.Context, caller policy.Caller, id uuid.UUID) error

	// Reactivate sets a deactivated user active again and resets their
	// missed-task count, giving the explicit manager action a clean slate.
	Reactivate(ctx context.Context, caller policy.Caller, id uuid.UUID) (*domain.User, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(users store.UserStore, hasher auth.PasswordHasher, logger *slog.Logger) (UserService, error) {
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("password hasher cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &userServiceImpl{
		users:  users,
		hasher: hasher,
		logger: logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := domain.NewUser(email, hashed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Get implements UserService.Get
func (s *userServiceImpl) Get(ctx context.Context, caller policy.Caller, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := policy.Resource{OwnerID: user.ID, OwnerRole: user.Role}
	if err := policy.Authorize(caller, policy.ActionViewUser, res); err != nil {
		return nil, ErrPermissionDenied
	}

	return user, nil
}

// List implements UserService.List
func (s *userServiceImpl) List(ctx context.Context, caller policy.Caller) ([]*domain.User, error) {
	if err := policy.Authorize(caller, policy.ActionListUsers, policy.Resource{}); err != nil {
		return nil, ErrPermissionDenied
	}

	return s.users.List(ctx)
}

// Update implements UserService.Update
func (s *userServiceImpl) Update(ctx context.Context, caller policy.Caller, id uuid.UUID, in UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := policy.Resource{OwnerID: user.ID, OwnerRole: user.Role}
	if err := policy.Authorize(caller, policy.ActionUpdateUser, res); err != nil {
		return nil, ErrPermissionDenied
	}

	if in.Role != nil {
		if !domain.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, domain.ErrInvalidRole)
		}
		// Role changes are a manager/admin operation; a self-updating
		// user cannot escalate.
		if caller.Role != domain.RoleAdmin && caller.Role != domain.RoleManager && *in.Role != user.Role {
			return nil, ErrPermissionDenied
		}
		user.Role = *in.Role
	}

	if in.Active != nil {
		if *in.Active && !user.Active {
			// Flipping a user back on follows the reactivation policy:
			// the missed-task count starts over.
			user.MissedTaskCount = 0
		}
		user.Active = *in.Active
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		slog.String("user_id", user.ID.String()),
		slog.String("caller_id", caller.ID.String()),
		slog.String("role", string(user.Role)),
		slog.Bool("active", user.Active))
	return user, nil
}

// Delete implements UserService.Delete
func (s *userServiceImpl) Delete(ctx context.Context, caller policy.Caller, id uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	res := policy.Resource{OwnerID: user.ID, OwnerRole: user.Role}
	if err := policy.Authorize(caller, policy.ActionDeleteUser, res); err != nil {
		return ErrPermissionDenied
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		slog.String("user_id", id.String()),
		slog.String("caller_id", caller.ID.String()))
	return nil
}

// Reactivate implements UserService.Reactivate
func (s *userServiceImpl) Reactivate(ctx context.Context, caller policy.Caller, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := policy.Resource{OwnerID: user.ID, OwnerRole: user.Role}
	if err := policy.Authorize(caller, policy.ActionReactivateUser, res); err != nil {
		return nil, ErrPermissionDenied
	}

	if err := s.users.SetActive(ctx, id, true); err != nil {
		return nil, err
	}

	s.logger.Info("user reactivated",
		slog.String("user_id", id.String()),
		slog.String("caller_id", caller.ID.String()))
	return s.users.GetByID(ctx, id)
}
