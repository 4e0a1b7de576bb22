package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode"

	"tunehub/internal/adapters/persistence/repositories"

	pinyin "github.com/mozillazg/go-pinyin"
	"gorm.io/gorm"
)

// ErrArtistNotFound is returned for an unknown artist ID
var ErrArtistNotFound = errors.New("artist not found")

// ArtistService implements artist catalog operations
type ArtistService struct {
	artistRepo repositories.ArtistRepository
	songRepo   repositories.SongRepository
	albumRepo  repositories.AlbumRepository
	videoRepo  repositories.VideoRepository
}

// NewArtistService creates a new artist service
func NewArtistService(artistRepo repositories.ArtistRepository, songRepo repositories.SongRepository, albumRepo repositories.AlbumRepository, videoRepo repositories.VideoRepository) *ArtistService {
	return &ArtistService{
		artistRepo: artistRepo,
		songRepo:   songRepo,
		albumRepo:  albumRepo,
		videoRepo:  videoRepo,
	}
}

// DeleteArtist unlinks the artist from songs, albums and videos, then
// deletes the artist row. Catalog entries survive with the artist name
// still denormalized on them.
func (s *ArtistService) DeleteArtist(ctx context.Context, id string) error {
	artist, err := s.artistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArtistNotFound
		}
		return err
	}

	if err := s.songRepo.DetachArtist(ctx, id); err != nil {
		return err
	}
	if err := s.albumRepo.DetachArtist(ctx, id); err != nil {
		return err
	}
	if err := s.videoRepo.DetachArtist(ctx, id); err != nil {
		return err
	}

	if err := s.artistRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("🗑️ Artist deleted: %s", artist.Name)
	return nil
}

// IndexLetter classifies an artist name into its index letter: the
// uppercased first letter for Latin names, the pinyin initial for
// Chinese names, '#' for everything else (digits, symbols).
func IndexLetter(name string) string {
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		upper := unicode.ToUpper(r)
		if upper >= 'A' && upper <= 'Z' {
			return string(upper)
		}
		if syllables := pinyin.LazyPinyin(string(r), pinyin.NewArgs()); len(syllables) > 0 && syllables[0] != "" {
			return strings.ToUpper(syllables[0][:1])
		}
		return "#"
	}
	return "#"
}
