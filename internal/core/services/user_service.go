package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/adapters/persistence/repositories"
	"tunehub/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User management errors
var (
	ErrInvalidRole      = errors.New("role must be 'user' or 'admin'")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
	ErrBadOverrideDoc   = errors.New("permissions override must be a JSON object")
)

// UserService implements the admin user-management operations
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns a page of users with the total count
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, total, nil
}

// AdminCreateInput represents admin user creation input
type AdminCreateInput struct {
	Username    string      `json:"username" validate:"required,min=2,max=50"`
	Password    string      `json:"password" validate:"required,min=6"`
	Email       string      `json:"email" validate:"omitempty,email"`
	Phone       string      `json:"phone" validate:"omitempty,min=5,max=20"`
	Role        string      `json:"role" validate:"omitempty,oneof=user admin"`
	Permissions interface{} `json:"permissions"`
}

// CreateUser creates an account with an explicit role and optional
// permission override doc (admin panel path; registration always gets
// the user role)
func (s *UserService) CreateUser(ctx context.Context, input *AdminCreateInput) (*models.UserResponse, error) {
	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}

	overrideDoc, err := normalizeOverrideDoc(input.Permissions)
	if err != nil {
		return nil, err
	}

	var email, phone *string
	if input.Email != "" {
		email = &input.Email
	}
	if input.Phone != "" {
		phone = &input.Phone
	}

	exists, err := s.userRepo.ExistsConflict(ctx, input.Username, email, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserConflict
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:          uuid.New().String(),
		Username:    input.Username,
		Email:       email,
		Phone:       phone,
		Password:    hashedPassword,
		Role:        role,
		Permissions: overrideDoc,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created by admin: %s (%s)", user.Username, user.Role)
	return user.ToResponse(), nil
}

// UpdateUserInput represents a role/permissions patch
type UpdateUserInput struct {
	Role        *string     `json:"role"`
	Permissions interface{} `json:"permissions"`
}

// UpdateUser patches a user's role and/or permission override document.
// Omitted fields keep their current values.
func (s *UserService) UpdateUser(ctx context.Context, id string, input *UpdateUserInput) (*models.UserResponse, error) {
	if input.Role != nil && *input.Role != models.RoleUser && *input.Role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}

	var overrideDoc *string
	if input.Permissions != nil {
		doc, err := normalizeOverrideDoc(input.Permissions)
		if err != nil {
			return nil, err
		}
		overrideDoc = &doc
	}

	user, err := s.userRepo.UpdateRolePermissions(ctx, id, input.Role, overrideDoc)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	log.Printf("✅ User updated: %s (role=%s)", user.Username, user.Role)
	return user.ToResponse(), nil
}

// DeleteUser deletes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, id, requesterID string) error {
	if id == requesterID {
		return ErrCannotDeleteSelf
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("🗑️ User deleted: %s", user.Username)
	return nil
}

// normalizeOverrideDoc accepts either a JSON object or an
// already-serialized string and stores the serialized form. Clients
// send both shapes; the resolver only ever sees the string.
func normalizeOverrideDoc(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		if v == "" {
			return "", nil
		}
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(v), &doc); err != nil {
			return "", ErrBadOverrideDoc
		}
		return v, nil
	case map[string]interface{}:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", ErrBadOverrideDoc
		}
		return string(raw), nil
	default:
		return "", ErrBadOverrideDoc
	}
}
