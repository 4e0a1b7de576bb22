// Package jsonstore is the legacy JSON-document fallback store. Album
// bulk operations and presentation parameters still live in flat files
// carried over from the original deployment; everything here is a
// whole-file read-modify-write guarded by a process-local mutex.
package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SongDoc is a song entry in the legacy catalog file
type SongDoc struct {
	ID      string                 `json:"id"`
	Title   string                 `json:"title"`
	Artist  string                 `json:"artist,omitempty"`
	Album   string                 `json:"album,omitempty"`
	AlbumID string                 `json:"album_id,omitempty"`
	Files   map[string]interface{} `json:"files,omitempty"`
}

// AlbumDoc is an album entry in the legacy catalog file
type AlbumDoc struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist,omitempty"`
	Cover  string `json:"cover,omitempty"`
}

// Catalog is the shape of the legacy db.json document
type Catalog struct {
	Albums []AlbumDoc `json:"albums"`
	Songs  []SongDoc  `json:"songs"`
}

// CatalogStore reads and writes the legacy catalog file
type CatalogStore struct {
	path string
	mu   sync.Mutex
}

// NewCatalogStore creates a catalog store backed by path
func NewCatalogStore(path string) *CatalogStore {
	return &CatalogStore{path: path}
}

func (s *CatalogStore) load() (*Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{}, nil
		}
		return nil, err
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (s *CatalogStore) save(catalog *Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// matchesAlbum reports whether a song belongs to the album, by name or
// by the album's legacy ID (old entries may carry either)
func matchesAlbum(song SongDoc, name, albumID string) bool {
	if song.Album == name {
		return true
	}
	return albumID != "" && song.AlbumID == albumID
}

// RenameAlbum renames an album and rewrites the album name on every
// member song. Returns how many entries changed.
func (s *CatalogStore) RenameAlbum(name, newName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load()
	if err != nil {
		return 0, err
	}

	albumID := ""
	updated := 0
	for i := range catalog.Albums {
		if catalog.Albums[i].Name == name {
			albumID = catalog.Albums[i].ID
			catalog.Albums[i].Name = newName
			updated++
		}
	}

	for i := range catalog.Songs {
		if matchesAlbum(catalog.Songs[i], name, albumID) {
			catalog.Songs[i].Album = newName
			updated++
		}
	}

	if updated == 0 {
		return 0, nil
	}
	return updated, s.save(catalog)
}

// DeleteAlbum removes an album and its member songs. Returns the storage
// paths of every file the removed songs referenced (the category key is
// a label, not a path) plus the number of removed entries.
func (s *CatalogStore) DeleteAlbum(name string) ([]string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load()
	if err != nil {
		return nil, 0, err
	}

	albumID := ""
	for _, album := range catalog.Albums {
		if album.Name == name {
			albumID = album.ID
			break
		}
	}

	var paths []string
	removed := 0

	kept := catalog.Songs[:0]
	for _, song := range catalog.Songs {
		if !matchesAlbum(song, name, albumID) {
			kept = append(kept, song)
			continue
		}
		removed++
		paths = append(paths, FilePaths(song.Files)...)
	}
	catalog.Songs = kept

	keptAlbums := catalog.Albums[:0]
	for _, album := range catalog.Albums {
		if album.Name == name {
			removed++
			continue
		}
		keptAlbums = append(keptAlbums, album)
	}
	catalog.Albums = keptAlbums

	if removed == 0 {
		return nil, 0, nil
	}
	return paths, removed, s.save(catalog)
}

// FindAlbum looks up an album entry by name
func (s *CatalogStore) FindAlbum(name string) (*AlbumDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range catalog.Albums {
		if catalog.Albums[i].Name == name {
			return &catalog.Albums[i], nil
		}
	}
	return nil, nil
}

// FilePaths collects every storage path referenced by a song files
// document. Values may be a single path or an array of paths; the
// category key is metadata and is skipped.
func FilePaths(files map[string]interface{}) []string {
	var paths []string
	for key, value := range files {
		if key == "category" {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				paths = append(paths, v)
			}
		case []interface{}:
			for _, item := range v {
				if p, ok := item.(string); ok && p != "" {
					paths = append(paths, p)
				}
			}
		}
	}
	return paths
}

// ParamsStore reads and writes the presentation parameters file
type ParamsStore struct {
	path string
	mu   sync.Mutex
}

// NewParamsStore creates a params store backed by path
func NewParamsStore(path string) *ParamsStore {
	return &ParamsStore{path: path}
}

// Load reads the current parameters; a missing file is an empty document
func (s *ParamsStore) Load() (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *ParamsStore) loadLocked() (map[string]interface{}, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}

	params := map[string]interface{}{}
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, err
	}
	return params, nil
}

// Merge shallow-merges incoming into the stored document and returns
// the merged result. The items document is merged per item key so a
// partial update leaves the other items alone.
func (s *ParamsStore) Merge(incoming map[string]interface{}) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	params, err := s.loadLocked()
	if err != nil {
		// A corrupt file should not wedge presentation settings forever
		params = map[string]interface{}{}
	}

	for key, value := range incoming {
		if key == "items" {
			params[key] = mergeItems(params[key], value)
			continue
		}
		params[key] = value
	}
	params["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return nil, err
	}
	return params, nil
}

// mergeItems folds incoming presentation items into the stored ones,
// key by key. A non-object value replaces whatever was there.
func mergeItems(existing, incoming interface{}) interface{} {
	incomingItems, ok := incoming.(map[string]interface{})
	if !ok {
		return incoming
	}

	merged, ok := existing.(map[string]interface{})
	if !ok {
		merged = map[string]interface{}{}
	}

	for key, value := range incomingItems {
		item, ok := value.(map[string]interface{})
		if !ok {
			merged[key] = value
			continue
		}
		current, _ := merged[key].(map[string]interface{})
		out := make(map[string]interface{}, len(current)+len(item))
		for k, v := range current {
			out[k] = v
		}
		for k, v := range item {
			out[k] = v
		}
		merged[key] = out
	}
	return merged
}
