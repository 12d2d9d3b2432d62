package roles_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlevel/studiogate/pkg/roles"
)

func TestPermissionLevel(t *testing.T) {
	t.Parallel()

	assert.Greater(t, roles.PermissionLevel(roles.RoleAdmin), roles.PermissionLevel(roles.RoleManager))
	assert.Greater(t, roles.PermissionLevel(roles.RoleManager), roles.PermissionLevel(roles.RoleStaff))
	assert.Greater(t, roles.PermissionLevel(roles.RoleStaff), roles.PermissionLevel(roles.Role("intruder")))
}

func TestHasPermission(t *testing.T) {
	t.Parallel()

	all := roles.All()

	// Pairwise consistency with the underlying levels.
	for _, r1 := range all {
		for _, r2 := range all {
			want := roles.PermissionLevel(r1) >= roles.PermissionLevel(r2)
			assert.Equal(t, want, roles.HasPermission(r1, r2), "%s vs %s", r1, r2)
		}
	}

	// Reflexive.
	for _, r := range all {
		assert.True(t, roles.HasPermission(r, r))
	}

	// Transitive: admin >= manager, manager >= staff implies admin >= staff.
	assert.True(t, roles.HasPermission(roles.RoleAdmin, roles.RoleManager))
	assert.True(t, roles.HasPermission(roles.RoleManager, roles.RoleStaff))
	assert.True(t, roles.HasPermission(roles.RoleAdmin, roles.RoleStaff))

	// Unknown roles never satisfy anything valid.
	assert.False(t, roles.HasPermission(roles.Role("superuser"), roles.RoleStaff))
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid roles", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"admin", "manager", "staff"} {
			r, err := roles.Parse(s)
			require.NoError(t, err)
			assert.Equal(t, roles.Role(s), r)
		}
	})

	t.Run("invalid roles", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"", "Admin", "root", "staff ", "owner"} {
			_, err := roles.Parse(s)
			assert.ErrorIs(t, err, roles.ErrInvalidRole, "input %q", s)
		}
	})
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	for _, r := range roles.All() {
		assert.True(t, roles.IsValid(r))
	}
	assert.False(t, roles.IsValid(roles.Role("guest")))
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		ctx := roles.SetToContext(context.Background(), roles.RoleManager)
		role, ok := roles.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, roles.RoleManager, role)
	})

	t.Run("missing role falls back to default", func(t *testing.T) {
		t.Parallel()

		_, ok := roles.FromContext(context.Background())
		assert.False(t, ok)
		assert.Equal(t, roles.Default, roles.FromContextOrDefault(context.Background()))
	})
}
