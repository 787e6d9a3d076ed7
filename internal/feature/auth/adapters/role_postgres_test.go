package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/feature/auth/usecase"
)

func TestEnsureDefaultRoles_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureDefaultRoles(ctx, db))
	require.NoError(t, EnsureDefaultRoles(ctx, db))

	roles, err := NewRolePostgres(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, entity.RoleAdmin, roles[0].Name)
	assert.Equal(t, entity.RoleUser, roles[1].Name)
}

func TestRolePostgres_AssignAndNames(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, EnsureDefaultRoles(ctx, db))

	users := NewUserPostgres(db)
	roles := NewRolePostgres(db)

	user := newUser("roles@example.com")
	require.NoError(t, users.Create(ctx, user))

	userRole, err := roles.FindByName(ctx, entity.RoleUser)
	require.NoError(t, err)
	adminRole, err := roles.FindByName(ctx, entity.RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, roles.Assign(ctx, user.ID, userRole.ID))
	require.NoError(t, roles.Assign(ctx, user.ID, adminRole.ID))

	err = roles.Assign(ctx, user.ID, userRole.ID)
	assert.ErrorIs(t, err, usecase.ErrRoleAlreadyAssigned)

	names, err := roles.NamesByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleAdmin, entity.RoleUser}, names)

	_, err = roles.FindByName(ctx, "EDITOR")
	assert.ErrorIs(t, err, usecase.ErrRoleNotFound)
}
