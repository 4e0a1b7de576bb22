package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, catalog *Catalog) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	data, err := json.Marshal(catalog)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func testCatalog() *Catalog {
	return &Catalog{
		Albums: []AlbumDoc{
			{ID: "alb-1", Name: "First Album", Artist: "Alice"},
			{ID: "alb-2", Name: "Other Album", Artist: "Bob"},
		},
		Songs: []SongDoc{
			{ID: "s1", Title: "One", Album: "First Album", Files: map[string]interface{}{
				"audio": "/audio/Alice/one.mp3",
				"lrcs":  []interface{}{"/lrc/Alice/one.lrc"},
			}},
			{ID: "s2", Title: "Two", AlbumID: "alb-1", Files: map[string]interface{}{
				"audio":    "/audio/Alice/two.mp3",
				"category": "pop",
			}},
			{ID: "s3", Title: "Three", Album: "Other Album"},
		},
	}
}

func TestCatalogMissingFile(t *testing.T) {
	store := NewCatalogStore(filepath.Join(t.TempDir(), "nope.json"))

	album, err := store.FindAlbum("anything")
	require.NoError(t, err)
	assert.Nil(t, album)

	updated, err := store.RenameAlbum("anything", "new")
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestRenameAlbum(t *testing.T) {
	path := writeCatalog(t, testCatalog())
	store := NewCatalogStore(path)

	// Album entry plus both member songs, one matched by legacy ID
	updated, err := store.RenameAlbum("First Album", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	album, err := store.FindAlbum("Renamed")
	require.NoError(t, err)
	require.NotNil(t, album)
	assert.Equal(t, "alb-1", album.ID)

	reread := NewCatalogStore(path)
	gone, err := reread.FindAlbum("First Album")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDeleteAlbum(t *testing.T) {
	store := NewCatalogStore(writeCatalog(t, testCatalog()))

	paths, removed, err := store.DeleteAlbum("First Album")
	require.NoError(t, err)

	// Album entry + two songs
	assert.Equal(t, 3, removed)
	// Category is a label, not a file
	assert.ElementsMatch(t, []string{
		"/audio/Alice/one.mp3",
		"/lrc/Alice/one.lrc",
		"/audio/Alice/two.mp3",
	}, paths)

	// Unrelated entries survive
	other, err := store.FindAlbum("Other Album")
	require.NoError(t, err)
	assert.NotNil(t, other)
}

func TestDeleteAlbumUnknown(t *testing.T) {
	store := NewCatalogStore(writeCatalog(t, testCatalog()))

	paths, removed, err := store.DeleteAlbum("No Such Album")
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Empty(t, paths)
}

func TestFilePaths(t *testing.T) {
	paths := FilePaths(map[string]interface{}{
		"audio":    "/audio/a.mp3",
		"image":    "",
		"category": "pop",
		"sheets":   []interface{}{"/sheets/a.pdf", "", 42},
	})
	assert.ElementsMatch(t, []string{"/audio/a.mp3", "/sheets/a.pdf"}, paths)
}

func TestParamsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	store := NewParamsStore(path)

	// Missing file reads as an empty document
	params, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, params)

	merged, err := store.Merge(map[string]interface{}{"theme": "dark", "volume": 0.5})
	require.NoError(t, err)
	assert.Equal(t, "dark", merged["theme"])

	// Shallow merge: existing keys survive, named keys are replaced
	merged, err = store.Merge(map[string]interface{}{"theme": "light"})
	require.NoError(t, err)
	assert.Equal(t, "light", merged["theme"])
	assert.Equal(t, 0.5, merged["volume"])

	reread, err := NewParamsStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "light", reread["theme"])
	assert.NotEmpty(t, reread["updatedAt"])
}

func TestParamsStoreMergesItemsPerKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	store := NewParamsStore(path)

	_, err := store.Merge(map[string]interface{}{
		"items": map[string]interface{}{
			"banner": map[string]interface{}{"visible": true, "text": "hello"},
		},
	})
	require.NoError(t, err)

	// A partial items update leaves the other items in place
	merged, err := store.Merge(map[string]interface{}{
		"items": map[string]interface{}{
			"footer": map[string]interface{}{"visible": false},
		},
	})
	require.NoError(t, err)

	items, ok := merged["items"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, items, "banner")
	assert.Contains(t, items, "footer")

	// Item fields merge too: updating one field keeps the rest
	merged, err = store.Merge(map[string]interface{}{
		"items": map[string]interface{}{
			"banner": map[string]interface{}{"visible": false},
		},
	})
	require.NoError(t, err)

	items = merged["items"].(map[string]interface{})
	banner := items["banner"].(map[string]interface{})
	assert.Equal(t, false, banner["visible"])
	assert.Equal(t, "hello", banner["text"])

	reread, err := NewParamsStore(path).Load()
	require.NoError(t, err)
	items = reread["items"].(map[string]interface{})
	assert.Contains(t, items, "banner")
	assert.Contains(t, items, "footer")
}
