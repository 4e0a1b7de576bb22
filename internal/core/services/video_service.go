package services

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"

	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/adapters/persistence/repositories"
	"tunehub/internal/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video errors
var (
	ErrVideoNotFound     = errors.New("video not found")
	ErrVideoFileRequired = errors.New("video file is required")
)

// Video list limits
const (
	DefaultVideoLimit = 50
	MaxVideoLimit     = 200
)

// VideoService implements the music video catalog
type VideoService struct {
	videoRepo  repositories.VideoRepository
	artistRepo repositories.ArtistRepository
	store      *storage.Store
}

// NewVideoService creates a new video service
func NewVideoService(videoRepo repositories.VideoRepository, artistRepo repositories.ArtistRepository, store *storage.Store) *VideoService {
	return &VideoService{
		videoRepo:  videoRepo,
		artistRepo: artistRepo,
		store:      store,
	}
}

// ListVideos returns videos filtered by artist, song or a free-text
// query over title, artist name and linked song title
func (s *VideoService) ListVideos(ctx context.Context, filter repositories.VideoFilter) ([]*models.Video, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultVideoLimit
	}
	if filter.Limit > MaxVideoLimit {
		filter.Limit = MaxVideoLimit
	}
	return s.videoRepo.List(ctx, filter)
}

// UploadVideoInput represents a multipart video upload
type UploadVideoInput struct {
	Title      string
	Artist     string
	SongID     string
	VideoName  string
	VideoData  []byte
	CoverName  string
	CoverData  []byte
}

// UploadVideo stores the video file (and optional cover) and creates
// the catalog row. The artist is created on first sight, like song
// uploads do.
func (s *VideoService) UploadVideo(ctx context.Context, input *UploadVideoInput) (*models.Video, error) {
	if len(input.VideoData) == 0 {
		return nil, ErrVideoFileRequired
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = strings.TrimSuffix(input.VideoName, filepath.Ext(input.VideoName))
	}

	artistName := strings.TrimSpace(input.Artist)
	var artistID *string
	if artistName != "" {
		artist, err := s.findOrCreateArtist(ctx, artistName)
		if err != nil {
			return nil, err
		}
		artistID = &artist.ID
	}

	group := storage.SanitizeFolder(artistName)
	src, err := s.store.Save(storage.TypeVideos, group, input.VideoName, input.VideoData)
	if err != nil {
		return nil, err
	}

	cover := ""
	if len(input.CoverData) > 0 {
		cover, err = s.store.Save(storage.TypeImages, group, input.CoverName, input.CoverData)
		if err != nil {
			s.store.Remove(src)
			return nil, err
		}
	}

	var songID *string
	if input.SongID != "" {
		songID = &input.SongID
	}

	video := &models.Video{
		ID:         uuid.New().String(),
		Code:       uuid.New().String(),
		Title:      title,
		ArtistID:   artistID,
		ArtistName: artistName,
		SongID:     songID,
		Src:        src,
		Cover:      cover,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.store.Remove(src)
		if cover != "" {
			s.store.Remove(cover)
		}
		return nil, err
	}

	log.Printf("✅ Video uploaded: %s", video.Title)
	return video, nil
}

// DeleteVideo removes the catalog row and its files
func (s *VideoService) DeleteVideo(ctx context.Context, id string) error {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	if err := s.videoRepo.Delete(ctx, id); err != nil {
		return err
	}

	if video.Src != "" {
		if err := s.store.Remove(video.Src); err != nil {
			log.Printf("⚠️ Failed to remove video file %s: %v", video.Src, err)
		}
	}
	if video.Cover != "" {
		if err := s.store.Remove(video.Cover); err != nil {
			log.Printf("⚠️ Failed to remove video cover %s: %v", video.Cover, err)
		}
	}

	log.Printf("🗑️ Video deleted: %s", video.Title)
	return nil
}

func (s *VideoService) findOrCreateArtist(ctx context.Context, name string) (*models.Artist, error) {
	artist, err := s.artistRepo.GetByName(ctx, name)
	if err == nil {
		return artist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	artist = &models.Artist{
		ID:    uuid.New().String(),
		Name:  name,
		Index: IndexLetter(name),
	}
	if err := s.artistRepo.Create(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}
