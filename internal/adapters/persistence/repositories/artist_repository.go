package repositories

import (
	"context"

	"tunehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// artistRepository implements ArtistRepository on GORM
type artistRepository struct {
	db *gorm.DB
}

// NewArtistRepository creates a new artist repository
func NewArtistRepository(db *gorm.DB) ArtistRepository {
	return &artistRepository{db: db}
}

// Create creates a new artist
func (r *artistRepository) Create(ctx context.Context, artist *models.Artist) error {
	return r.db.WithContext(ctx).Create(artist).Error
}

// GetByID gets an artist by ID
func (r *artistRepository) GetByID(ctx context.Context, id string) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&artist).Error
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

// GetByName gets an artist by exact name
func (r *artistRepository) GetByName(ctx context.Context, name string) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&artist).Error
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

// Delete removes an artist
func (r *artistRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Artist{}).Error
}
