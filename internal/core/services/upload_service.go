package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/adapters/persistence/repositories"
	"tunehub/internal/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoUploadFiles is returned when a song upload carries no media at all
var ErrNoUploadFiles = errors.New("at least one audio, lrc or sheet file is required")

// UploadConflictError reports which media types an upload would
// overwrite on an existing song. Clients retry with force=true to
// overwrite.
type UploadConflictError struct {
	SongID string
	Title  string
	Types  []string
}

func (e *UploadConflictError) Error() string {
	return fmt.Sprintf("song '%s' already has: %s", e.Title, strings.Join(e.Types, ", "))
}

// trailing bracketed qualifiers like "(Live)", "[Remix]" or "【必杀技】",
// in ASCII and fullwidth forms
var titleQualifierRe = regexp.MustCompile(`\s*[\(\[（【].*$`)

// NormalizeTitle reduces a title (or uploaded file name) to its
// comparable form: extension and trailing bracketed qualifiers
// stripped, surrounding whitespace trimmed. Uploads of "Song (Live).mp3"
// and "Song" are the same song.
func NormalizeTitle(title string) string {
	title = strings.TrimSuffix(title, filepath.Ext(title))
	title = titleQualifierRe.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// FilePayload is one uploaded file
type FilePayload struct {
	Name string
	Data []byte
}

// SongUploadInput represents a multipart song upload
type SongUploadInput struct {
	Title       string
	Artist      string
	Album       string
	Genre       string
	Language    string
	ReleaseDate string
	Description string
	Category    string
	Force       bool
	Audio       *FilePayload
	Image       *FilePayload
	Lrcs        []FilePayload
	Sheets      []FilePayload
}

// UploadResult reports what an upload did
type UploadResult struct {
	Song   *models.SongResponse `json:"song"`
	Merged bool                 `json:"merged"`
}

// UploadService ingests song uploads: writes media files to storage and
// creates or merges catalog rows. A second upload of a known song (same
// normalized title under the same artist and album) merges instead of
// duplicating: lrc and sheet files accumulate, audio and image are
// replaced only under force.
type UploadService struct {
	songRepo   repositories.SongRepository
	artistRepo repositories.ArtistRepository
	albumRepo  repositories.AlbumRepository
	store      *storage.Store
}

// NewUploadService creates a new upload service
func NewUploadService(songRepo repositories.SongRepository, artistRepo repositories.ArtistRepository, albumRepo repositories.AlbumRepository, store *storage.Store) *UploadService {
	return &UploadService{
		songRepo:   songRepo,
		artistRepo: artistRepo,
		albumRepo:  albumRepo,
		store:      store,
	}
}

// UploadSong ingests one song upload. Every file written to storage is
// rolled back if the catalog write fails.
func (s *UploadService) UploadSong(ctx context.Context, input *SongUploadInput) (*UploadResult, error) {
	if input.Audio == nil && len(input.Lrcs) == 0 && len(input.Sheets) == 0 {
		return nil, ErrNoUploadFiles
	}

	title := strings.TrimSpace(input.Title)
	if title == "" && input.Audio != nil {
		title = NormalizeTitle(input.Audio.Name)
	}
	if title == "" && len(input.Sheets) > 0 {
		title = NormalizeTitle(input.Sheets[0].Name)
	}

	artistName := strings.TrimSpace(input.Artist)
	albumName := strings.TrimSpace(input.Album)

	existing, err := s.findExisting(ctx, title, artistName, albumName)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return s.mergeUpload(ctx, existing, input)
	}
	return s.createUpload(ctx, title, artistName, albumName, input)
}

// findExisting looks for a song with the same normalized title under
// the same artist and album
func (s *UploadService) findExisting(ctx context.Context, title, artistName, albumName string) (*models.Song, error) {
	songs, err := s.songRepo.FindByArtistAlbum(ctx, artistName, albumName)
	if err != nil {
		return nil, err
	}

	normalized := NormalizeTitle(title)
	for _, song := range songs {
		if NormalizeTitle(song.Title) == normalized {
			return song, nil
		}
	}
	return nil, nil
}

// createUpload writes the files and creates artist, album and song rows
func (s *UploadService) createUpload(ctx context.Context, title, artistName, albumName string, input *SongUploadInput) (*UploadResult, error) {
	var artistID *string
	if artistName != "" {
		artist, err := s.findOrCreateArtist(ctx, artistName)
		if err != nil {
			return nil, err
		}
		artistID = &artist.ID
	}

	var albumID *string
	if albumName != "" {
		album, err := s.findOrCreateAlbum(ctx, albumName, artistID, artistName)
		if err != nil {
			return nil, err
		}
		albumID = &album.ID
	}

	files := map[string]interface{}{}
	if input.Category != "" {
		files["category"] = input.Category
	}

	var saved []string
	rollback := func() {
		for _, path := range saved {
			s.store.Remove(path)
		}
	}

	group := storage.SanitizeFolder(artistName)

	if input.Audio != nil {
		path, err := s.store.Save(storage.TypeAudio, group, input.Audio.Name, input.Audio.Data)
		if err != nil {
			rollback()
			return nil, err
		}
		saved = append(saved, path)
		files["audio"] = path
	}
	if input.Image != nil {
		path, err := s.store.Save(storage.TypeImages, group, input.Image.Name, input.Image.Data)
		if err != nil {
			rollback()
			return nil, err
		}
		saved = append(saved, path)
		files["image"] = path
	}

	lrcs := []interface{}{}
	for _, lrc := range input.Lrcs {
		path, err := s.store.Save(storage.TypeLrc, group, lrc.Name, lrc.Data)
		if err != nil {
			rollback()
			return nil, err
		}
		saved = append(saved, path)
		lrcs = append(lrcs, path)
	}
	if len(lrcs) > 0 {
		files["lrcs"] = lrcs
	}

	sheets := []interface{}{}
	for _, sheet := range input.Sheets {
		path, err := s.store.Save(storage.TypeSheets, group, sheet.Name, sheet.Data)
		if err != nil {
			rollback()
			return nil, err
		}
		saved = append(saved, path)
		sheets = append(sheets, path)
	}
	if len(sheets) > 0 {
		files["sheets"] = sheets
	}

	song := &models.Song{
		ID:          uuid.New().String(),
		Title:       title,
		ArtistID:    artistID,
		ArtistName:  artistName,
		AlbumID:     albumID,
		AlbumName:   albumName,
		Genre:       input.Genre,
		Language:    input.Language,
		ReleaseDate: input.ReleaseDate,
		Description: input.Description,
	}
	song.SetFilesDoc(files)

	if err := s.songRepo.Create(ctx, song); err != nil {
		rollback()
		return nil, err
	}

	log.Printf("✅ Song uploaded: %s - %s", artistName, title)
	return &UploadResult{Song: song.ToResponse()}, nil
}

// mergeUpload folds new media into an existing song. Audio and image
// conflicts need force; lrc and sheet files always accumulate.
func (s *UploadService) mergeUpload(ctx context.Context, song *models.Song, input *SongUploadInput) (*UploadResult, error) {
	files := song.FilesDoc()

	if !input.Force {
		var conflicts []string
		if audio, _ := files["audio"].(string); audio != "" && input.Audio != nil {
			conflicts = append(conflicts, "audio")
		}
		if image, _ := files["image"].(string); image != "" && input.Image != nil {
			conflicts = append(conflicts, "image")
		}
		if len(conflicts) > 0 {
			return nil, &UploadConflictError{SongID: song.ID, Title: song.Title, Types: conflicts}
		}
	}

	var saved []string
	rollback := func() {
		for _, path := range saved {
			s.store.Remove(path)
		}
	}

	group := storage.SanitizeFolder(song.ArtistName)
	var replaced []string

	if input.Audio != nil {
		path, err := s.store.Save(storage.TypeAudio, group, input.Audio.Name, input.Audio.Data)
		if err != nil {
			rollback()
			return nil, err
		}
		saved = append(saved, path)
		if old, _ := files["audio"].(string); old != "" {
			replaced = append(replaced, old)
		}
		files["audio"] = path
	}
	if input.Image != nil {
		path, err := s.store.Save(storage.TypeImages, group, input.Image.Name, input.Image.Data)
		if err != nil {
			rollback()
			return nil, err
		}
		saved = append(saved, path)
		if old, _ := files["image"].(string); old != "" {
			replaced = append(replaced, old)
		}
		files["image"] = path
	}

	lrcs, _ := files["lrcs"].([]interface{})
	for _, lrc := range input.Lrcs {
		path, err := s.store.Save(storage.TypeLrc, group, lrc.Name, lrc.Data)
		if err != nil {
			rollback()
			return nil, err
		}
		saved = append(saved, path)
		lrcs = append(lrcs, path)
	}
	if len(lrcs) > 0 {
		files["lrcs"] = lrcs
	}

	sheets, _ := files["sheets"].([]interface{})
	for _, sheet := range input.Sheets {
		path, err := s.store.Save(storage.TypeSheets, group, sheet.Name, sheet.Data)
		if err != nil {
			rollback()
			return nil, err
		}
		saved = append(saved, path)
		sheets = append(sheets, path)
	}
	if len(sheets) > 0 {
		files["sheets"] = sheets
	}

	if input.Category != "" {
		files["category"] = input.Category
	}
	if input.Genre != "" {
		song.Genre = input.Genre
	}
	if input.Language != "" {
		song.Language = input.Language
	}
	if input.ReleaseDate != "" {
		song.ReleaseDate = input.ReleaseDate
	}
	if input.Description != "" {
		song.Description = input.Description
	}
	song.SetFilesDoc(files)

	if err := s.songRepo.Update(ctx, song); err != nil {
		rollback()
		return nil, err
	}

	// Old media only goes away once the catalog points at the new files
	for _, old := range replaced {
		if err := s.store.Remove(old); err != nil {
			log.Printf("⚠️ Failed to remove replaced file %s: %v", old, err)
		}
	}

	log.Printf("✅ Song merged: %s - %s", song.ArtistName, song.Title)
	return &UploadResult{Song: song.ToResponse(), Merged: true}, nil
}

// UploadImage stores a standalone image (playlist and album covers) and
// returns its public path
func (s *UploadService) UploadImage(ctx context.Context, group string, file *FilePayload) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", ErrNoUploadFiles
	}
	return s.store.Save(storage.TypeImages, group, file.Name, file.Data)
}

func (s *UploadService) findOrCreateArtist(ctx context.Context, name string) (*models.Artist, error) {
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
	if createErr := s.artistRepo.Create(ctx, artist); createErr != nil {
		return nil, createErr
	}
	return artist, nil
}

func (s *UploadService) findOrCreateAlbum(ctx context.Context, name string, artistID *string, artistName string) (*models.Album, error) {
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
	if createErr := s.albumRepo.Create(ctx, album); createErr != nil {
		return nil, createErr
	}
	return album, nil
}
