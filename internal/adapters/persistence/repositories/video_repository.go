package repositories

import (
	"context"

	"tunehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// videoRepository implements VideoRepository on GORM
type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

// Create creates a new video
func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// GetByID gets a video with relations
func (r *videoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).
		Preload("Artist").Preload("Song").
		Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// List lists videos newest first, narrowed by the filter
func (r *videoRepository) List(ctx context.Context, filter VideoFilter) ([]*models.Video, error) {
	query := r.db.WithContext(ctx).
		Preload("Artist").Preload("Song").
		Order("created_at DESC")

	if filter.ArtistID != "" {
		query = query.Where("artist_id = ?", filter.ArtistID)
	}
	if filter.SongID != "" {
		query = query.Where("song_id = ?", filter.SongID)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where(
			"title LIKE ? OR artist_name LIKE ? OR song_id IN (SELECT id FROM songs WHERE title LIKE ?)",
			like, like, like,
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var videos []*models.Video
	err := query.Find(&videos).Error
	return videos, err
}

// Delete removes a video
func (r *videoRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Video{}).Error
}

// DetachArtist clears the artist link on all of an artist's videos
func (r *videoRepository) DetachArtist(ctx context.Context, artistID string) error {
	return r.db.WithContext(ctx).Model(&models.Video{}).
		Where("artist_id = ?", artistID).
		Update("artist_id", nil).Error
}
