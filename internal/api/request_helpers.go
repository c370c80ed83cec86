package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskward/taskward-api/internal/api/shared"
	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/policy"
)

// getCaller extracts the authenticated caller placed in the context by the
// auth middleware. If it is missing, an unauthorized response is written
// and ok is false.
func getCaller(w http.ResponseWriter, r *http.Request) (policy.Caller, bool) {
	caller, ok := shared.CallerFromContext(r.Context())
	if !ok || caller.ID == uuid.Nil {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return policy.Caller{}, false
	}
	return caller, true
}

// getPathUUID extracts and parses a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed %s", domain.ErrInvalidID, paramName)
	}
	return id, nil
}
