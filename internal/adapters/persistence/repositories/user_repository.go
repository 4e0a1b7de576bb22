package repositories

import (
	"context"
	"time"

	"tunehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository on GORM
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIdentifier gets a user by username, email or phone
func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ? OR phone = ?", identifier, identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete soft deletes a user
func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{}).Error
}

// List lists users with pagination, newest first
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsConflict checks whether username, email or phone is already taken
func (r *userRepository) ExistsConflict(ctx context.Context, username string, email, phone *string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username)
	if email != nil && *email != "" {
		query = query.Or("email = ?", *email)
	}
	if phone != nil && *phone != "" {
		query = query.Or("phone = ?", *phone)
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// UpdateRolePermissions patches role and/or the permission override doc
func (r *userRepository) UpdateRolePermissions(ctx context.Context, id string, role, permissions *string) (*models.User, error) {
	updates := map[string]interface{}{}
	if role != nil {
		updates["role"] = *role
	}
	if permissions != nil {
		updates["permissions"] = *permissions
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// SetResetTicket overwrites any prior live reset ticket for the user
func (r *userRepository) SetResetTicket(ctx context.Context, id string, ticket *string, expiry *time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reset_token":        ticket,
		"reset_token_expiry": expiry,
	}).Error
}

// ConsumeResetTicket verifies a live ticket and, in the same statement,
// writes the new password hash and clears the ticket. The WHERE guard on
// reset_token makes the consume atomic: a second call with the same
// ticket matches zero rows.
func (r *userRepository) ConsumeResetTicket(ctx context.Context, ticket, hashedPassword string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expiry > ?", ticket, time.Now()).
		First(&user).Error
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reset_token = ?", user.ID, ticket).
		Updates(map[string]interface{}{
			"password":           hashedPassword,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &user, nil
}

// ClearExpiredResetTickets removes tickets whose expiry has elapsed
func (r *userRepository) ClearExpiredResetTickets(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_token IS NOT NULL AND reset_token_expiry < ?", time.Now()).
		Updates(map[string]interface{}{
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	return result.RowsAffected, result.Error
}
