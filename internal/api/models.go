package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/sweep"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    string    `json:"expires_at"` // ISO 8601 access-token expiry
}

// UserResponse is the public shape of a user record. The password hash
// never leaves the service.
type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Active          bool      `json:"active"`
	MissedTaskCount int       `json:"missed_task_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewUserResponse converts a domain user into its API representation.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Role:            string(u.Role),
		Active:          u.Active,
		MissedTaskCount: u.MissedTaskCount,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// UpdateUserRequest defines the payload for the administrative user update
// endpoint. Absent fields are left unchanged.
type UpdateUserRequest struct {
	Role   *string `json:"role,omitempty"   validate:"omitempty,oneof=admin manager user"`
	Active *bool   `json:"active,omitempty"`
}

// AssignTaskRequest defines the payload for the task assignment endpoint.
type AssignTaskRequest struct {
	AssigneeID  string    `json:"assignee_id" validate:"required,uuid"`
	Title       string    `json:"title"       validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	Deadline    time.Time `json:"deadline"    validate:"required"`
}

// UpdateTaskStatusRequest defines the payload for the status update
// endpoint. Missed is not an accepted value: only the sweep marks tasks
// missed.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

// TaskResponse is the public shape of a task record.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AssigneeID  uuid.UUID `json:"assignee_id"`
	AssignerID  uuid.UUID `json:"assigner_id"`
	Deadline    time.Time `json:"deadline"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTaskResponse converts a domain task into its API representation.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssigneeID:  t.AssigneeID,
		AssignerID:  t.AssignerID,
		Deadline:    t.Deadline,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TaskListResponse wraps a task collection.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// NewTaskListResponse converts a slice of domain tasks.
func NewTaskListResponse(tasks []*domain.Task) TaskListResponse {
	out := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks))}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, NewTaskResponse(t))
	}
	return out
}

// UserListResponse wraps a user collection.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// NewUserListResponse converts a slice of domain users.
func NewUserListResponse(users []*domain.User) UserListResponse {
	out := UserListResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, NewUserResponse(u))
	}
	return out
}

// SweepFailureResponse reports one task the sweep could not process.
type SweepFailureResponse struct {
	TaskID uuid.UUID `json:"task_id"`
	Stage  string    `json:"stage"`
	Error  string    `json:"error"`
}

// SweepResponse reports the outcome of an on-demand sweep run.
type SweepResponse struct {
	StartedAt   time.Time              `json:"started_at"`
	FinishedAt  time.Time              `json:"finished_at"`
	Scanned     int                    `json:"scanned"`
	Missed      int                    `json:"missed"`
	Deactivated int                    `json:"deactivated"`
	Notified    int                    `json:"notified"`
	Failures    []SweepFailureResponse `json:"failures,omitempty"`
}

// NewSweepResponse converts a sweep report into its API representation.
// Failure details are reduced to the task, the stage, and a redaction-safe
// summary.
func NewSweepResponse(report *sweep.Report) SweepResponse {
	resp := SweepResponse{
		StartedAt:   report.StartedAt,
		FinishedAt:  report.FinishedAt,
		Scanned:     report.Scanned,
		Missed:      report.Missed,
		Deactivated: report.Deactivated,
		Notified:    report.Notified,
	}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, SweepFailureResponse{
			TaskID: f.TaskID,
			Stage:  f.Stage,
			Error:  GetSafeErrorMessage(f.Err),
		})
	}
	return resp
}
