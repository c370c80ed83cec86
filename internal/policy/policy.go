// Package policy implements the role-based access control decision function.
//
// Authorize is a pure mapping from (caller, action, resource) to an
// allow/deny decision. It has no side effects, touches no storage, and never
// panics: anything not explicitly allowed is denied, including unrecognized
// roles or actions and inactive callers. Handlers and services call it before
// touching the user or task stores.
package policy

import (
	"errors"

	"github.com/google/uuid"
	"github.com/taskward/taskward-api/internal/domain"
)

// ErrDenied is returned for every denied decision. Callers surface it as a
// permission failure; it is never retried.
var ErrDenied = errors.New("access denied")

// Action identifies an operation subject to authorization.
type Action string

// Actions the policy knows about.
const (
	ActionListUsers        Action = "user.list"
	ActionViewUser         Action = "user.view"
	ActionUpdateUser       Action = "user.update"
	ActionDeleteUser       Action = "user.delete"
	ActionReactivateUser   Action = "user.reactivate"
	ActionAssignTask       Action = "task.assign"
	ActionViewTask         Action = "task.view"
	ActionListAllTasks     Action = "task.list_all"
	ActionUpdateTaskStatus Action = "task.update_status"
	ActionRunSweep         Action = "sweep.run"
)

// Caller is the authenticated identity making a request, as resolved by the
// transport layer. The policy trusts these fields as authoritative.
type Caller struct {
	ID     uuid.UUID
	Role   domain.Role
	Active bool
}

// Resource describes the target of an action.
//
// OwnerID is the user the resource belongs to: the target user's own ID for
// user actions, the assignee's ID for task actions. OwnerRole is set for user
// actions so the manager/admin boundary can be enforced; it is the zero value
// for task actions.
type Resource struct {
	OwnerID   uuid.UUID
	OwnerRole domain.Role
}

// Authorize decides whether the caller may perform the action on the
// resource. Returns nil when allowed and ErrDenied otherwise.
//
// Rules, first match wins:
//  1. Inactive or anonymous callers are denied everything.
//  2. Admins may do anything.
//  3. Managers may list and view users, modify or delete non-admin users,
//     reactivate non-admin users, assign tasks, and view or list any task.
//  4. Users may view and update their own user record, and view or update
//     the status of their own tasks.
//  5. Everything else, including unrecognized roles, is denied.
func Authorize(caller Caller, action Action, res Resource) error {
	if !caller.Active || caller.ID == uuid.Nil {
		return ErrDenied
	}

	switch caller.Role {
	case domain.RoleAdmin:
		return nil

	case domain.RoleManager:
		switch action {
		case ActionListUsers, ActionViewUser:
			return nil
		case ActionUpdateUser, ActionDeleteUser, ActionReactivateUser:
			if res.OwnerRole == domain.RoleAdmin {
				return ErrDenied
			}
			return nil
		case ActionAssignTask, ActionViewTask, ActionListAllTasks:
			return nil
		}
		return ErrDenied

	case domain.RoleUser:
		switch action {
		case ActionViewUser, ActionUpdateUser:
			if res.OwnerID == caller.ID {
				return nil
			}
		case ActionViewTask, ActionUpdateTaskStatus:
			if res.OwnerID == caller.ID {
				return nil
			}
		}
		return ErrDenied
	}

	return ErrDenied
}
