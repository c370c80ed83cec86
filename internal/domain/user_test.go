package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskward/taskward-api/internal/domain"
)

func TestNewUserDefaults(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("worker@example.com", "hashed-password")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.Active)
	assert.Zero(t, user.MissedTaskCount)
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	valid := func() *domain.User {
		u, err := domain.NewUser("worker@example.com", "hashed-password")
		require.NoError(t, err)
		return u
	}

	t.Run("invalid email", func(t *testing.T) {
		for _, email := range []string{"", "no-at.example.com", "@example.com", "a@", "a@b", "a@@b.com"} {
			u := valid()
			u.Email = email
			assert.Error(t, u.Validate(), "email %q should be rejected", email)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		u := valid()
		u.Role = domain.Role("superuser")
		assert.ErrorIs(t, u.Validate(), domain.ErrInvalidRole)
	})

	t.Run("negative missed count", func(t *testing.T) {
		u := valid()
		u.MissedTaskCount = -1
		assert.ErrorIs(t, u.Validate(), domain.ErrNegativeMissedCount)
	})
}

func TestIsElevated(t *testing.T) {
	t.Parallel()

	u, err := domain.NewUser("worker@example.com", "hashed-password")
	require.NoError(t, err)

	assert.False(t, u.IsElevated())
	u.Role = domain.RoleManager
	assert.True(t, u.IsElevated())
	u.Role = domain.RoleAdmin
	assert.True(t, u.IsElevated())
}

func TestValidRole(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.ValidRole(domain.RoleAdmin))
	assert.True(t, domain.ValidRole(domain.RoleManager))
	assert.True(t, domain.ValidRole(domain.RoleUser))
	assert.False(t, domain.ValidRole(domain.Role("")))
	assert.False(t, domain.ValidRole(domain.Role("root")))
}
