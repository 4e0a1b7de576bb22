package repositories

import (
	"context"

	"tunehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// songRepository implements SongRepository on GORM
type songRepository struct {
	db *gorm.DB
}

// NewSongRepository creates a new song repository
func NewSongRepository(db *gorm.DB) SongRepository {
	return &songRepository{db: db}
}

// Create creates a new song
func (r *songRepository) Create(ctx context.Context, song *models.Song) error {
	return r.db.WithContext(ctx).Create(song).Error
}

// GetByID gets a song with its artist and album
func (r *songRepository) GetByID(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	err := r.db.WithContext(ctx).
		Preload("Artist").Preload("Album").
		Where("id = ?", id).First(&song).Error
	if err != nil {
		return nil, err
	}
	return &song, nil
}

// GetByIDs gets songs by a set of IDs
func (r *songRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Song, error) {
	var songs []*models.Song
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&songs).Error
	return songs, err
}

// ListAll fetches every song with relations
func (r *songRepository) ListAll(ctx context.Context) ([]*models.Song, error) {
	var songs []*models.Song
	err := r.db.WithContext(ctx).Preload("Artist").Preload("Album").Find(&songs).Error
	return songs, err
}

// FindByArtistAlbum fetches songs matching an artist and album name.
// An empty album name matches songs without an album.
func (r *songRepository) FindByArtistAlbum(ctx context.Context, artistName, albumName string) ([]*models.Song, error) {
	var songs []*models.Song
	query := r.db.WithContext(ctx).Where("artist_name = ?", artistName)
	if albumName == "" {
		query = query.Where("album_name = '' OR album_name IS NULL")
	} else {
		query = query.Where("album_name = ?", albumName)
	}
	err := query.Find(&songs).Error
	return songs, err
}

// Update updates a song
func (r *songRepository) Update(ctx context.Context, song *models.Song) error {
	return r.db.WithContext(ctx).Save(song).Error
}

// Delete removes a song and its playlist memberships
func (r *songRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM playlist_songs WHERE song_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Song{}).Error
	})
}

// DeleteMany removes a batch of songs and their playlist memberships
func (r *songRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM playlist_songs WHERE song_id IN ?", ids).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.Song{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

// DetachArtist clears the artist link on all of an artist's songs
func (r *songRepository) DetachArtist(ctx context.Context, artistID string) error {
	return r.db.WithContext(ctx).Model(&models.Song{}).
		Where("artist_id = ?", artistID).
		Update("artist_id", nil).Error
}
