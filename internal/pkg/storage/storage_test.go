package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFolder(t *testing.T) {
	assert.Equal(t, "Taylor_Swift", SanitizeFolder("Taylor Swift"))
	assert.Equal(t, "a.b-c_1", SanitizeFolder("a.b-c_1"))
	assert.Equal(t, "default", SanitizeFolder(""))
	assert.Equal(t, "____", SanitizeFolder("周杰伦/"))
	assert.LessOrEqual(t, len(SanitizeFolder(strings.Repeat("x", 200))), 80)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "song.mp3", SanitizeFileName("song.mp3"))
	assert.Equal(t, "song.mp3", SanitizeFileName("../../etc/song.mp3"))
	assert.Equal(t, "passwd", SanitizeFileName("..passwd"))
	assert.Equal(t, "file", SanitizeFileName(""))
	assert.Equal(t, "file", SanitizeFileName("..."))
	assert.NotContains(t, SanitizeFileName("a%b?c#d.txt"), "%")
}

func TestSanitizeFileNameTruncatesOnRuneBoundary(t *testing.T) {
	long := SanitizeFileName(strings.Repeat("歌", 100) + ".mp3")
	assert.LessOrEqual(t, len(long), 180)
	assert.True(t, utf8.ValidString(long))

	ascii := SanitizeFileName(strings.Repeat("x", 200) + ".mp3")
	assert.Equal(t, 180, len(ascii))
}

func TestSaveAndOpen(t *testing.T) {
	store := New(t.TempDir())

	path, err := store.Save(TypeAudio, "Artist", "song.mp3", []byte("audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/audio/Artist/song.mp3", path)

	full, info, err := store.Open(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len("audio-bytes")), info.Size())

	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}

func TestSaveDoesNotOverwrite(t *testing.T) {
	store := New(t.TempDir())

	first, err := store.Save(TypeAudio, "Artist", "song.mp3", []byte("one"))
	require.NoError(t, err)
	second, err := store.Save(TypeAudio, "Artist", "song.mp3", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	full, _, err := store.Open(first)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestResolveClampsTraversal(t *testing.T) {
	root := t.TempDir()
	store := New(root)

	for _, path := range []string{
		"../outside.txt",
		"/audio/../../outside.txt",
		"audio/../../../etc/passwd",
		"..%2f..%2fetc/passwd",
	} {
		full, err := store.Resolve(path)
		require.NoError(t, err, "path %q", path)
		assert.True(t, strings.HasPrefix(full, root), "path %q resolved outside the root: %s", path, full)
	}
}

func TestOpenMissing(t *testing.T) {
	store := New(t.TempDir())

	_, _, err := store.Open("/audio/Artist/nope.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemovePrunesEmptyDirs(t *testing.T) {
	root := t.TempDir()
	store := New(root)

	path, err := store.Save(TypeAudio, "Artist", "song.mp3", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))

	// The artist directory disappears with its last file
	_, err = os.Stat(filepath.Join(root, TypeAudio, "Artist"))
	assert.True(t, os.IsNotExist(err))

	// Re-removing is not an error
	assert.NoError(t, store.Remove(path))
}

func TestRemoveKeepsNonEmptyDirs(t *testing.T) {
	root := t.TempDir()
	store := New(root)

	first, err := store.Save(TypeAudio, "Artist", "one.mp3", []byte("1"))
	require.NoError(t, err)
	_, err = store.Save(TypeAudio, "Artist", "two.mp3", []byte("2"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(first))

	_, err = os.Stat(filepath.Join(root, TypeAudio, "Artist"))
	assert.NoError(t, err)
}
