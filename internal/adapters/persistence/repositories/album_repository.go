package repositories

import (
	"context"

	"tunehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// albumRepository implements AlbumRepository on GORM
type albumRepository struct {
	db *gorm.DB
}

// NewAlbumRepository creates a new album repository
func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &albumRepository{db: db}
}

// Create creates a new album
func (r *albumRepository) Create(ctx context.Context, album *models.Album) error {
	return r.db.WithContext(ctx).Create(album).Error
}

// GetByNameAndArtist gets an album by name under a specific artist
func (r *albumRepository) GetByNameAndArtist(ctx context.Context, name, artistID string) (*models.Album, error) {
	var album models.Album
	err := r.db.WithContext(ctx).Where("name = ? AND artist_id = ?", name, artistID).First(&album).Error
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// GetByName gets an album by name
func (r *albumRepository) GetByName(ctx context.Context, name string) (*models.Album, error) {
	var album models.Album
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&album).Error
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// DetachArtist clears the artist link on all of an artist's albums
func (r *albumRepository) DetachArtist(ctx context.Context, artistID string) error {
	return r.db.WithContext(ctx).Model(&models.Album{}).
		Where("artist_id = ?", artistID).
		Update("artist_id", nil).Error
}
