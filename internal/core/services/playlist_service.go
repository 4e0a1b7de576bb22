package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/adapters/persistence/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Playlist errors
var (
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrPlaylistForbidden  = errors.New("not allowed to access this playlist")
	ErrBadPlaylistStatus  = errors.New("invalid playlist status")
	ErrStatusNotPermitted = errors.New("not allowed to set this playlist status")
)

// PlaylistService implements playlist management and the review
// workflow: users submit private playlists for review (pending) and
// admins publish them.
type PlaylistService struct {
	playlistRepo repositories.PlaylistRepository
}

// NewPlaylistService creates a new playlist service
func NewPlaylistService(playlistRepo repositories.PlaylistRepository) *PlaylistService {
	return &PlaylistService{playlistRepo: playlistRepo}
}

func validStatus(status string) bool {
	switch status {
	case models.PlaylistPrivate, models.PlaylistPending, models.PlaylistPublic:
		return true
	}
	return false
}

// ListPlaylists returns playlists the viewer may see: public ones plus
// the viewer's own. Admins asking for the admin view see everything.
// An optional status narrows the result.
func (s *PlaylistService) ListPlaylists(ctx context.Context, viewerID, role, status string, adminView bool) ([]*models.Playlist, error) {
	if status != "" && !validStatus(status) {
		return nil, ErrBadPlaylistStatus
	}

	filter := repositories.PlaylistFilter{
		Status:    status,
		ViewerID:  viewerID,
		AdminView: adminView && role == models.RoleAdmin,
	}
	return s.playlistRepo.List(ctx, filter)
}

// CreatePlaylistInput represents playlist creation input
type CreatePlaylistInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description"`
	Tags        string   `json:"tags"`
	Cover       string   `json:"cover"`
	Status      string   `json:"status" validate:"omitempty,oneof=private pending public"`
	SongIDs     []string `json:"song_ids"`
}

// CreatePlaylist creates a playlist for creatorID. Admin playlists
// default to public, user playlists to private; users may not
// self-publish.
func (s *PlaylistService) CreatePlaylist(ctx context.Context, creatorID, role string, input *CreatePlaylistInput) (*models.Playlist, error) {
	status := input.Status
	if status == "" {
		if role == models.RoleAdmin {
			status = models.PlaylistPublic
		} else {
			status = models.PlaylistPrivate
		}
	}
	if !validStatus(status) {
		return nil, ErrBadPlaylistStatus
	}
	if status == models.PlaylistPublic && role != models.RoleAdmin {
		return nil, ErrStatusNotPermitted
	}

	playlist := &models.Playlist{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Tags:        input.Tags,
		Cover:       input.Cover,
		CreatorID:   creatorID,
		Status:      status,
	}

	if err := s.playlistRepo.Create(ctx, playlist, input.SongIDs); err != nil {
		return nil, err
	}

	created, err := s.playlistRepo.GetByID(ctx, playlist.ID)
	if err != nil {
		return playlist, nil
	}

	log.Printf("✅ Playlist created: %s (%s)", playlist.Title, playlist.Status)
	return created, nil
}

// GetPlaylist returns a playlist the viewer may see: public, their own,
// or any when the viewer is an admin.
func (s *PlaylistService) GetPlaylist(ctx context.Context, id, viewerID, role string) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}

	if playlist.Status != models.PlaylistPublic && playlist.CreatorID != viewerID && role != models.RoleAdmin {
		return nil, ErrPlaylistForbidden
	}
	return playlist, nil
}

// UpdatePlaylistInput represents playlist edits. Nil pointers leave the
// current value alone; a nil SongIDs keeps the current track list.
type UpdatePlaylistInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        *string  `json:"tags"`
	Cover       *string  `json:"cover"`
	Status      *string  `json:"status"`
	SongIDs     []string `json:"song_ids"`
}

// UpdatePlaylist applies edits under the review workflow rules:
// submitting for review (pending) is the owner's move, publishing is
// the admin's, and taking a playlist back private is open to both.
// Content edits need owner or admin.
func (s *PlaylistService) UpdatePlaylist(ctx context.Context, id, requesterID, role string, input *UpdatePlaylistInput) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}

	isOwner := playlist.CreatorID == requesterID
	isAdmin := role == models.RoleAdmin
	if !isOwner && !isAdmin {
		return nil, ErrPlaylistForbidden
	}

	if input.Status != nil && *input.Status != playlist.Status {
		if !validStatus(*input.Status) {
			return nil, ErrBadPlaylistStatus
		}
		switch *input.Status {
		case models.PlaylistPending:
			if !isOwner {
				return nil, ErrStatusNotPermitted
			}
		case models.PlaylistPublic:
			if !isAdmin {
				return nil, ErrStatusNotPermitted
			}
		}
		playlist.Status = *input.Status
	}

	if input.Title != nil && *input.Title != "" {
		playlist.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		playlist.Description = *input.Description
	}
	if input.Tags != nil {
		playlist.Tags = *input.Tags
	}
	if input.Cover != nil {
		playlist.Cover = *input.Cover
	}

	if err := s.playlistRepo.Update(ctx, playlist, input.SongIDs); err != nil {
		return nil, err
	}

	return s.playlistRepo.GetByID(ctx, id)
}

// DeletePlaylist removes a playlist (owner or admin)
func (s *PlaylistService) DeletePlaylist(ctx context.Context, id, requesterID, role string) error {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlaylistNotFound
		}
		return err
	}

	if playlist.CreatorID != requesterID && role != models.RoleAdmin {
		return ErrPlaylistForbidden
	}

	if err := s.playlistRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("🗑️ Playlist deleted: %s", playlist.Title)
	return nil
}

// PendingOlderThan lists review-queue playlists submitted before the
// cutoff. The cron reminder uses this.
func (s *PlaylistService) PendingOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Playlist, error) {
	return s.playlistRepo.ListPendingOlderThan(ctx, cutoff)
}
