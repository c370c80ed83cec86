package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskward/taskward-api/internal/api"
	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/service"
	"github.com/taskward/taskward-api/internal/service/auth"
	"github.com/taskward/taskward-api/internal/store"
	"github.com/taskward/taskward-api/internal/sweep"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"missing caller", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"permission denied", service.ErrPermissionDenied, http.StatusForbidden},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"duplicate email", store.ErrEmailExists, http.StatusConflict},
		{"sweep in progress", sweep.ErrSweepInProgress, http.StatusConflict},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"unknown status", domain.ErrInvalidTaskStatus, http.StatusBadRequest},
		{"validation failure", service.ErrValidation, http.StatusBadRequest},
		{"malformed id", domain.ErrInvalidID, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("context: %w", store.ErrTaskNotFound), http.StatusNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessageNeverEchoesInternals(t *testing.T) {
	t.Parallel()

	internal := fmt.Errorf("pq: connect to postgres://app:hunter2@db failed: %w", store.ErrTransactionFailed)
	msg := api.GetSafeErrorMessage(internal)
	assert.NotContains(t, msg, "hunter2")
	assert.NotContains(t, msg, "postgres")

	assert.Equal(t, "An unexpected error occurred", api.GetSafeErrorMessage(nil))
	assert.Equal(t, "Task not found", api.GetSafeErrorMessage(store.ErrTaskNotFound))
	assert.Equal(t, "Invalid credentials", api.GetSafeErrorMessage(auth.ErrInvalidCredentials))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag")
	msg := api.SanitizeValidationError(err)
	assert.Contains(t, msg, "Email")
	assert.Contains(t, msg, "required")

	assert.Equal(t, "Validation error", api.SanitizeValidationError(errors.New("something else")))
}
