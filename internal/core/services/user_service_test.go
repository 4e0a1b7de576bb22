package services

import (
	"context"
	"testing"

	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCreateUser(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewUserService(userRepo)

	created, err := svc.CreateUser(context.Background(), &AdminCreateInput{
		Username: "editor",
		Password: "secret123",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Role)

	stored, err := userRepo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, password.Verify("secret123", stored.Password))
	assert.Empty(t, stored.Permissions)
}

func TestAdminCreateUserDefaultsToUserRole(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	created, err := svc.CreateUser(context.Background(), &AdminCreateInput{
		Username: "plain",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, created.Role)
}

func TestAdminCreateUserBadRole(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	_, err := svc.CreateUser(context.Background(), &AdminCreateInput{
		Username: "editor",
		Password: "secret123",
		Role:     "moderator",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAdminCreateUserConflict(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewUserService(userRepo)

	_, err := svc.CreateUser(context.Background(), &AdminCreateInput{Username: "editor", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), &AdminCreateInput{Username: "editor", Password: "other456"})
	assert.ErrorIs(t, err, ErrUserConflict)
}

func TestCreateUserWithPermissionsMap(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewUserService(userRepo)

	created, err := svc.CreateUser(context.Background(), &AdminCreateInput{
		Username: "uploader",
		Password: "secret123",
		Permissions: map[string]interface{}{
			"upload": true,
			"delete": "self",
		},
	})
	require.NoError(t, err)

	stored, err := userRepo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"upload":true,"delete":"self"}`, stored.Permissions)
}

func TestCreateUserWithPermissionsString(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewUserService(userRepo)

	created, err := svc.CreateUser(context.Background(), &AdminCreateInput{
		Username:    "uploader",
		Password:    "secret123",
		Permissions: `{"upload":true}`,
	})
	require.NoError(t, err)

	stored, err := userRepo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"upload":true}`, stored.Permissions)
}

func TestCreateUserRejectsBadOverrideDocs(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	for _, permissions := range []interface{}{"not json", `["upload"]`, 42, true} {
		_, err := svc.CreateUser(context.Background(), &AdminCreateInput{
			Username:    "uploader",
			Password:    "secret123",
			Permissions: permissions,
		})
		assert.ErrorIs(t, err, ErrBadOverrideDoc, "permissions %v", permissions)
	}
}

func TestUpdateUserRole(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewUserService(userRepo)
	seedUser(userRepo, "u1", models.RoleUser, "")

	role := models.RoleAdmin
	updated, err := svc.UpdateUser(context.Background(), "u1", &UpdateUserInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestUpdateUserPermissionsOnly(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewUserService(userRepo)
	seedUser(userRepo, "u1", models.RoleUser, "")

	_, err := svc.UpdateUser(context.Background(), "u1", &UpdateUserInput{
		Permissions: map[string]interface{}{"upload": true},
	})
	require.NoError(t, err)

	stored, err := userRepo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.JSONEq(t, `{"upload":true}`, stored.Permissions)
}

func TestUpdateUserBadRole(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewUserService(userRepo)
	seedUser(userRepo, "u1", models.RoleUser, "")

	role := "superuser"
	_, err := svc.UpdateUser(context.Background(), "u1", &UpdateUserInput{Role: &role})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	role := models.RoleAdmin
	_, err := svc.UpdateUser(context.Background(), "ghost", &UpdateUserInput{Role: &role})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewUserService(userRepo)
	seedUser(userRepo, "u1", models.RoleUser, "")

	require.NoError(t, svc.DeleteUser(context.Background(), "u1", "admin-1"))

	_, err := userRepo.GetByID(context.Background(), "u1")
	assert.Error(t, err)
}

func TestDeleteUserSelf(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewUserService(userRepo)
	seedUser(userRepo, "admin-1", models.RoleAdmin, "")

	err := svc.DeleteUser(context.Background(), "admin-1", "admin-1")
	assert.ErrorIs(t, err, ErrCannotDeleteSelf)
}

func TestDeleteUnknownUser(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	err := svc.DeleteUser(context.Background(), "ghost", "admin-1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewUserService(userRepo)
	seedUser(userRepo, "u1", models.RoleUser, "")
	seedUser(userRepo, "u2", models.RoleUser, "")
	seedUser(userRepo, "u3", models.RoleAdmin, "")

	users, total, err := svc.ListUsers(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)
}
