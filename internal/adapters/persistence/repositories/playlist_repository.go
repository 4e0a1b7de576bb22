package repositories

import (
	"context"
	"time"

	"tunehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// playlistRepository implements PlaylistRepository on GORM
type playlistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository creates a new playlist repository
func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

// Create creates a playlist and connects its songs
func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist, songIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(playlist).Error; err != nil {
			return err
		}
		if len(songIDs) == 0 {
			return nil
		}
		var songs []*models.Song
		if err := tx.Where("id IN ?", songIDs).Find(&songs).Error; err != nil {
			return err
		}
		return tx.Model(playlist).Association("Songs").Append(songs)
	})
}

// GetByID gets a playlist with songs and creator
func (r *playlistRepository) GetByID(ctx context.Context, id string) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.db.WithContext(ctx).
		Preload("Songs").Preload("Creator").
		Where("id = ?", id).First(&playlist).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// List lists playlists, newest first. Without AdminView the result is
// public playlists plus the viewer's own; a status filter narrows either
// mode further.
func (r *playlistRepository) List(ctx context.Context, filter PlaylistFilter) ([]*models.Playlist, error) {
	query := r.db.WithContext(ctx).
		Preload("Songs").Preload("Creator").
		Order("created_at DESC")

	if !filter.AdminView {
		if filter.ViewerID != "" {
			query = query.Where("status = ? OR creator_id = ?", models.PlaylistPublic, filter.ViewerID)
		} else {
			query = query.Where("status = ?", models.PlaylistPublic)
		}
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var playlists []*models.Playlist
	err := query.Find(&playlists).Error
	return playlists, err
}

// Update saves playlist fields and, when songIDs is non-nil, replaces
// the song membership
func (r *playlistRepository) Update(ctx context.Context, playlist *models.Playlist, songIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Songs").Save(playlist).Error; err != nil {
			return err
		}
		if songIDs == nil {
			return nil
		}
		var songs []*models.Song
		if len(songIDs) > 0 {
			if err := tx.Where("id IN ?", songIDs).Find(&songs).Error; err != nil {
				return err
			}
		}
		return tx.Model(playlist).Association("Songs").Replace(songs)
	})
}

// Delete removes a playlist and its song memberships
func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM playlist_songs WHERE playlist_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Playlist{}).Error
	})
}

// ListPendingOlderThan fetches pending playlists submitted before
// cutoff. Staleness follows created_at so content edits do not reset
// a playlist's place in the review queue.
func (r *playlistRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.PlaylistPending, cutoff).
		Find(&playlists).Error
	return playlists, err
}
