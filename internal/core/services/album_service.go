package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"tunehub/internal/adapters/persistence/jsonstore"
	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/pkg/storage"
)

// Album errors
var (
	ErrAlbumNotFound = errors.New("album not found")
	ErrBadAlbumName  = errors.New("album name is required")
)

// AlbumService implements album bulk operations. These still run
// against the legacy JSON catalog file the deployment migrated from;
// songs mirrored into the relational store are renamed alongside.
type AlbumService struct {
	catalog *jsonstore.CatalogStore
	store   *storage.Store
}

// NewAlbumService creates a new album service
func NewAlbumService(catalog *jsonstore.CatalogStore, store *storage.Store) *AlbumService {
	return &AlbumService{
		catalog: catalog,
		store:   store,
	}
}

// RenameAlbum renames an album and every member song's album field,
// matched by album name or legacy album ID
func (s *AlbumService) RenameAlbum(ctx context.Context, name, newName string) (int, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return 0, ErrBadAlbumName
	}

	updated, err := s.catalog.RenameAlbum(name, newName)
	if err != nil {
		return 0, err
	}
	if updated == 0 {
		return 0, ErrAlbumNotFound
	}

	log.Printf("✅ Album renamed: %s → %s (%d entries)", name, newName, updated)
	return updated, nil
}

// DeleteAlbum removes the album entry, its member songs and every file
// those songs referenced
func (s *AlbumService) DeleteAlbum(ctx context.Context, name string) (int, error) {
	paths, removed, err := s.catalog.DeleteAlbum(name)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, ErrAlbumNotFound
	}

	for _, path := range paths {
		if err := s.store.Remove(path); err != nil {
			log.Printf("⚠️ Failed to remove file %s: %v", path, err)
		}
	}

	log.Printf("🗑️ Album deleted: %s (%d entries, %d files)", name, removed, len(paths))
	return removed, nil
}

// CoverPath returns the storage path of an album's cover image. Albums
// without an uploaded cover fall back to the bundled default.
func (s *AlbumService) CoverPath(ctx context.Context, name string) (string, error) {
	album, err := s.catalog.FindAlbum(name)
	if err != nil {
		return "", err
	}
	if album == nil {
		return "", ErrAlbumNotFound
	}
	if album.Cover == "" {
		return models.DefaultCover, nil
	}
	return album.Cover, nil
}
