package services

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"

	"tunehub/internal/adapters/persistence/jsonstore"
	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/adapters/persistence/repositories"
	"tunehub/internal/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Song errors
var (
	ErrSongNotFound  = errors.New("song not found")
	ErrBadSheetIndex = errors.New("sheet index out of range")
)

// DefaultRandomLimit is how many songs a random page returns by default
const DefaultRandomLimit = 50

// SongService implements song catalog operations
type SongService struct {
	songRepo   repositories.SongRepository
	artistRepo repositories.ArtistRepository
	albumRepo  repositories.AlbumRepository
	store      *storage.Store
}

// NewSongService creates a new song service
func NewSongService(songRepo repositories.SongRepository, artistRepo repositories.ArtistRepository, albumRepo repositories.AlbumRepository, store *storage.Store) *SongService {
	return &SongService{
		songRepo:   songRepo,
		artistRepo: artistRepo,
		albumRepo:  albumRepo,
		store:      store,
	}
}

// GetSong returns a song with its relations and files decoded
func (s *SongService) GetSong(ctx context.Context, id string) (*models.SongResponse, error) {
	song, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	return song.ToResponse(), nil
}

// RandomSongs returns up to limit songs in random order. The whole
// catalog is shuffled so every song has the same chance of appearing on
// the first page.
func (s *SongService) RandomSongs(ctx context.Context, limit int) ([]*models.SongResponse, error) {
	if limit <= 0 {
		limit = DefaultRandomLimit
	}

	songs, err := s.songRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(songs), func(i, j int) {
		songs[i], songs[j] = songs[j], songs[i]
	})

	if len(songs) > limit {
		songs = songs[:limit]
	}

	responses := make([]*models.SongResponse, len(songs))
	for i, song := range songs {
		responses[i] = song.ToResponse()
	}
	return responses, nil
}

// UpdateSongInput represents editable song fields. Nil pointers leave
// the current value alone.
type UpdateSongInput struct {
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Artist      *string `json:"artist"`
	Album       *string `json:"album"`
	Genre       *string `json:"genre"`
	Language    *string `json:"language"`
	ReleaseDate *string `json:"release_date"`
	Description *string `json:"description"`
}

// UpdateSong applies catalog edits. A new artist or album name is
// created on the fly when no row exists yet; albums always hang under
// the song's (possibly new) artist.
func (s *SongService) UpdateSong(ctx context.Context, id string, input *UpdateSongInput) (*models.SongResponse, error) {
	song, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}

	if input.Title != nil && *input.Title != "" {
		song.Title = strings.TrimSpace(*input.Title)
	}
	if input.Genre != nil {
		song.Genre = *input.Genre
	}
	if input.Language != nil {
		song.Language = *input.Language
	}
	if input.ReleaseDate != nil {
		song.ReleaseDate = *input.ReleaseDate
	}
	if input.Description != nil {
		song.Description = *input.Description
	}

	if input.Category != nil {
		files := song.FilesDoc()
		files["category"] = *input.Category
		song.SetFilesDoc(files)
	}

	if input.Artist != nil && strings.TrimSpace(*input.Artist) != "" {
		artist, err := s.findOrCreateArtist(ctx, strings.TrimSpace(*input.Artist))
		if err != nil {
			return nil, err
		}
		song.ArtistID = &artist.ID
		song.ArtistName = artist.Name
	}

	if input.Album != nil && strings.TrimSpace(*input.Album) != "" {
		album, err := s.findOrCreateAlbum(ctx, strings.TrimSpace(*input.Album), song.ArtistID, song.ArtistName)
		if err != nil {
			return nil, err
		}
		song.AlbumID = &album.ID
		song.AlbumName = album.Name
	}

	if err := s.songRepo.Update(ctx, song); err != nil {
		return nil, err
	}

	log.Printf("✅ Song updated: %s", song.Title)
	return song.ToResponse(), nil
}

// DeleteSong removes a song and every file it references, then prunes
// empty media directories. When sheetIndex is given only that sheet
// file goes away; the song row survives unless it held nothing else.
func (s *SongService) DeleteSong(ctx context.Context, id string, sheetIndex *int) error {
	song, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSongNotFound
		}
		return err
	}

	if sheetIndex != nil {
		return s.deleteSheet(ctx, song, *sheetIndex)
	}

	s.removeFiles(song.FilesDoc())

	if err := s.songRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("🗑️ Song deleted: %s", song.Title)
	return nil
}

// deleteSheet removes one sheet file from the song. A song that carried
// only sheets is deleted outright when the last one goes.
func (s *SongService) deleteSheet(ctx context.Context, song *models.Song, index int) error {
	files := song.FilesDoc()
	sheets, _ := files["sheets"].([]interface{})
	if index < 0 || index >= len(sheets) {
		return ErrBadSheetIndex
	}

	if path, ok := sheets[index].(string); ok && path != "" {
		if err := s.store.Remove(path); err != nil {
			log.Printf("⚠️ Failed to remove sheet file %s: %v", path, err)
		}
	}

	sheets = append(sheets[:index], sheets[index+1:]...)
	files["sheets"] = sheets

	audio, _ := files["audio"].(string)
	if len(sheets) == 0 && audio == "" {
		s.removeFiles(files)
		if err := s.songRepo.Delete(ctx, song.ID); err != nil {
			return err
		}
		log.Printf("🗑️ Song deleted (last sheet removed): %s", song.Title)
		return nil
	}

	song.SetFilesDoc(files)
	return s.songRepo.Update(ctx, song)
}

// BatchDelete removes several songs and their files. Unknown ids are
// skipped; the count of deleted rows comes back.
func (s *SongService) BatchDelete(ctx context.Context, ids []string) (int64, error) {
	songs, err := s.songRepo.GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	found := make([]string, 0, len(songs))
	for _, song := range songs {
		s.removeFiles(song.FilesDoc())
		found = append(found, song.ID)
	}

	if len(found) == 0 {
		return 0, nil
	}

	deleted, err := s.songRepo.DeleteMany(ctx, found)
	if err != nil {
		return 0, err
	}

	log.Printf("🗑️ Batch deleted %d songs", deleted)
	return deleted, nil
}

// removeFiles best-effort deletes every file a song references. Media
// cleanup never blocks catalog deletion.
func (s *SongService) removeFiles(files map[string]interface{}) {
	for _, path := range jsonstore.FilePaths(files) {
		if err := s.store.Remove(path); err != nil {
			log.Printf("⚠️ Failed to remove file %s: %v", path, err)
		}
	}
}

func (s *SongService) findOrCreateArtist(ctx context.Context, name string) (*models.Artist, error) {
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

func (s *SongService) findOrCreateAlbum(ctx context.Context, name string, artistID *string, artistName string) (*models.Album, error) {
	var album *models.Album
	var err error
	if artistID != nil {
		album, err = s.albumRepo.GetByNameAndArtist(ctx, name, *artistID)
	} else {
		album, err = s.albumRepo.GetByName(ctx, name)
	}
	if err == nil {
		return album, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	album = &models.Album{
		ID:         uuid.New().String(),
		Name:       name,
		ArtistID:   artistID,
		ArtistName: artistName,
		Cover:      models.DefaultCover,
	}
	if err := s.albumRepo.Create(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}
