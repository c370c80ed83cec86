package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward-api/internal/api/middleware"
	"github.com/taskward/taskward-api/internal/api/shared"
	"github.com/taskward/taskward-api/internal/domain"
	"github.com/taskward/taskward-api/internal/service/auth"
	"github.com/taskward/taskward-api/internal/store"
)

type stubJWTService struct {
	auth.JWTService
	validateFn func(ctx context.Context, token string) (*auth.Claims, error)
}

func (s *stubJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	return s.validateFn(ctx, token)
}

type stubUserStore struct {
	store.UserStore
	getByIDFn func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (s *stubUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getByIDFn(ctx, id)
}

func liveUser(role domain.Role, active bool) *domain.User {
	return &domain.User{
		ID:     uuid.New(),
		Email:  "worker@example.com",
		Role:   role,
		Active: active,
	}
}

func protectedEndpoint(m *middleware.AuthMiddleware, sawCaller *bool, t *testing.T, wantID uuid.UUID, wantRole domain.Role) http.Handler {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := shared.CallerFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantID, caller.ID)
		assert.Equal(t, wantRole, caller.Role)
		assert.True(t, caller.Active)
		*sawCaller = true
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthenticateResolvesLiveCaller(t *testing.T) {
	t.Parallel()

	// The user was promoted after the token was issued; the caller's role
	// must reflect the store, not the token.
	user := liveUser(domain.RoleManager, true)
	jwt := &stubJWTService{
		validateFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			require.Equal(t, "valid-token", token)
			return &auth.Claims{UserID: user.ID, TokenType: "access"}, nil
		},
	}
	users := &stubUserStore{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			require.Equal(t, user.ID, id)
			return user, nil
		},
	}

	var sawCaller bool
	handler := protectedEndpoint(middleware.NewAuthMiddleware(jwt, users), &sawCaller, t, user.ID, domain.RoleManager)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, sawCaller)
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	t.Parallel()

	user := liveUser(domain.RoleUser, false)
	jwt := &stubJWTService{
		validateFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			return &auth.Claims{UserID: user.ID, TokenType: "access"}, nil
		},
	}
	users := &stubUserStore{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return user, nil
		},
	}

	handler := middleware.NewAuthMiddleware(jwt, users).
		Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("deactivated users must not reach handlers")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer still-valid-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "deactivated")
}

func TestAuthenticateHeaderAndTokenFailures(t *testing.T) {
	t.Parallel()

	jwt := &stubJWTService{
		validateFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			switch token {
			case "expired":
				return nil, auth.ErrExpiredToken
			default:
				return nil, auth.ErrInvalidToken
			}
		},
	}
	users := &stubUserStore{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return nil, store.ErrUserNotFound
		},
	}
	handler := middleware.NewAuthMiddleware(jwt, users).
		Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unauthenticated requests must not reach handlers")
		}))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"expired token", "Bearer expired"},
		{"garbage token", "Bearer garbage"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestAuthenticateDeletedUser(t *testing.T) {
	t.Parallel()

	jwt := &stubJWTService{
		validateFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			return &auth.Claims{UserID: uuid.New(), TokenType: "access"}, nil
		},
	}
	users := &stubUserStore{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return nil, store.ErrUserNotFound
		},
	}
	handler := middleware.NewAuthMiddleware(jwt, users).
		Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("tokens for deleted users must be rejected")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer token-for-ghost")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
