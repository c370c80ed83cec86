package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role identifies the permission tier a user belongs to.
type Role string

// Possible user roles.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// MissedTaskThreshold is the number of missed tasks at which a user is
// automatically deactivated by the overdue sweep.
const MissedTaskThreshold = 5

// Common validation errors for User
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmailFormat  = errors.New("invalid email format")
	ErrInvalidRole         = errors.New("role must be one of admin, manager, user")
	ErrNegativeMissedCount = errors.New("missed task count cannot be negative")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents an account in the system. Role drives every authorization
// decision; Active and MissedTaskCount are maintained by the overdue sweep
// and by manager/admin administration.
//
// Invariant: a persisted user with MissedTaskCount >= MissedTaskThreshold is
// never active. The store enforces this in the same operation that increments
// the counter.
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	HashedPassword  string    `json:"-"`
	Role            Role      `json:"role"`
	Active          bool      `json:"active"`
	MissedTaskCount int       `json:"missed_task_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewUser creates a new User with the default role, active state, and a zero
// missed-task count. The caller is responsible for hashing the password and
// passing the hash; plaintext never reaches the domain layer.
func NewUser(email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:              uuid.New(),
		Email:           email,
		HashedPassword:  hashedPassword,
		Role:            RoleUser,
		Active:          true,
		MissedTaskCount: 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmailFormat
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	if !ValidRole(u.Role) {
		return ErrInvalidRole
	}

	if u.MissedTaskCount < 0 {
		return ErrNegativeMissedCount
	}

	return nil
}

// IsElevated reports whether the user holds a manager or admin role.
func (u *User) IsElevated() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// ValidRole reports whether the given role is one of the recognized roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	default:
		return false
	}
}

// validEmailFormat performs basic validation of email shape: a single
// non-leading, non-trailing @ with a dotted domain part.
func validEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			if atIndex != -1 {
				return false
			}
			atIndex = i
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
