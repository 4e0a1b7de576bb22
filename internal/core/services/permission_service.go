package services

import (
	"context"
	"errors"

	"tunehub/internal/adapters/persistence/repositories"
	"tunehub/internal/pkg/permissions"

	"gorm.io/gorm"
)

// PermissionService resolves effective permissions for a user and
// answers authorization questions. Resolution happens per request; the
// service keeps no cache, so role and override changes take effect on
// the next call.
type PermissionService struct {
	userRepo repositories.UserRepository
}

// NewPermissionService creates a new permission service
func NewPermissionService(userRepo repositories.UserRepository) *PermissionService {
	return &PermissionService{userRepo: userRepo}
}

// Effective returns the user's effective permission set: the role
// baseline merged with the per-user override document.
func (s *PermissionService) Effective(ctx context.Context, userID string) (permissions.Set, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return permissions.Resolve(user.Role, user.Permissions), nil
}

// Can reports whether the user may perform action on a resource owned
// by ownerID. A user the store no longer knows gets nothing.
func (s *PermissionService) Can(ctx context.Context, userID, action, ownerID string) (bool, error) {
	perms, err := s.Effective(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return permissions.Authorize(perms, action, userID, ownerID), nil
}
