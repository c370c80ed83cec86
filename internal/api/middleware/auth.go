package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskward/taskward-api/internal/api/shared"
	"github.com/taskward/taskward-api/internal/policy"
	"github.com/taskward/taskward-api/internal/redact"
	"github.com/taskward/taskward-api/internal/service/auth"
	"github.com/taskward/taskward-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes. Beyond verifying
// the token it loads the live user record, so role changes and
// deactivation take effect immediately rather than at the next token
// issuance.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Authenticate validates the bearer token, resolves the caller from the
// user store, and rejects deactivated accounts. The resolved policy.Caller
// is added to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenType):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}
			slog.Error("failed to load user for authenticated request",
				"error", redact.Error(err), "user_id", claims.UserID)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		if !user.Active {
			shared.RespondWithError(w, r, http.StatusForbidden, "Account is deactivated")
			return
		}

		ctx := shared.WithCaller(r.Context(), policy.Caller{
			ID:     user.ID,
			Role:   user.Role,
			Active: user.Active,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
