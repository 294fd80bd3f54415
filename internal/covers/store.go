// file: internal/covers/store.go
// version: 1.0.0
// guid: 4efaa7b8-e29a-47f3-84f7-39b46bfc9a01

package covers

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// Store writes resolved covers to a directory: cover_<key>.jpg for real
// artwork and GENERIC_<key>.jpg for placeholders.
type Store struct {
	dir string
}

// NewStore creates the covers directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty covers directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the covers directory.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns the file path used for a book key and source.
func (s *Store) PathFor(key string, source SourceKind) string {
	prefix := "cover_"
	if source == SourcePlaceholder {
		prefix = "GENERIC_"
	}
	return filepath.Join(s.dir, prefix+sanitizeKey(key)+".jpg")
}

// Save writes data for key and returns the file path.
func (s *Store) Save(key string, source SourceKind, data []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty book key")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty cover image")
	}
	path := s.PathFor(key, source)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}
	return path, nil
}

func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
