package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrOutsideRoot = errors.New("path escapes storage root")
	ErrNotFound    = errors.New("file not found")
)

// Media type directories under the storage root
const (
	TypeAudio  = "audio"
	TypeImages = "images"
	TypeLrc    = "lrc"
	TypeSheets = "sheets"
	TypeVideos = "videos"
)

var (
	folderRe   = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	fileNameRe = regexp.MustCompile(`[\x00/\\%?#]`)
)

// Store persists and serves uploaded media files under a single root
// directory. All public paths are root-relative with a leading slash
// (e.g. "/audio/<group>/<file>"), matching what gets stored in the
// song files document.
type Store struct {
	root string
}

// New creates a store rooted at dir
func New(dir string) *Store {
	return &Store{root: filepath.Clean(dir)}
}

// Root returns the storage root directory
func (s *Store) Root() string {
	return s.root
}

// SanitizeFolder makes a value safe to use as a directory name
func SanitizeFolder(value string) string {
	cleaned := folderRe.ReplaceAllString(value, "_")
	if len(cleaned) > 80 {
		cleaned = cleaned[:80]
	}
	if cleaned == "" {
		return "default"
	}
	return cleaned
}

// SanitizeFileName makes an uploaded file name safe to write to disk
func SanitizeFileName(value string) string {
	base := filepath.Base(value)
	cleaned := fileNameRe.ReplaceAllString(base, "_")
	cleaned = strings.TrimLeft(cleaned, ".")
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > 180 {
		// Back off to a rune boundary so a multibyte name is never cut
		// mid-rune
		cut := 180
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
	}
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

// Save writes data under <root>/<mediaType>/<group>/ and returns the
// root-relative public path. Name collisions get a timestamp suffix
// instead of overwriting an existing file.
func (s *Store) Save(mediaType, group, name string, data []byte) (string, error) {
	group = SanitizeFolder(group)
	name = SanitizeFileName(name)

	dir := filepath.Join(s.root, mediaType, group)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for attempt := 0; attempt < 5; attempt++ {
		candidate := name
		if attempt > 0 {
			candidate = fmt.Sprintf("%s_%d_%d%s", stem, time.Now().UnixMilli(), attempt, ext)
		}

		f, err := os.OpenFile(filepath.Join(dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", err
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(filepath.Join(dir, candidate))
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}

		return "/" + mediaType + "/" + group + "/" + candidate, nil
	}

	return "", errors.New("failed to save file: too many name collisions")
}

// Resolve converts a public path into an absolute on-disk path,
// rejecting anything that would escape the storage root.
func (s *Store) Resolve(publicPath string) (string, error) {
	cleaned := filepath.Join(s.root, filepath.Clean("/"+strings.TrimPrefix(publicPath, "/")))
	if cleaned != s.root && !strings.HasPrefix(cleaned, s.root+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return cleaned, nil
}

// Open stats and returns the on-disk path for a public path
func (s *Store) Open(publicPath string) (string, os.FileInfo, error) {
	full, err := s.Resolve(publicPath)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}
	if info.IsDir() {
		return "", nil, ErrNotFound
	}
	return full, info, nil
}

// Remove deletes the file behind a public path and prunes any parent
// directories left empty, stopping at the storage root. A missing file
// is not an error.
func (s *Store) Remove(publicPath string) error {
	full, err := s.Resolve(publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.pruneEmptyDirs(filepath.Dir(full))
	return nil
}

func (s *Store) pruneEmptyDirs(dir string) {
	for dir != s.root && strings.HasPrefix(dir, s.root+string(filepath.Separator)) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
