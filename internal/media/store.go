package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store persists asset bytes under a filename.
type Store interface {
	Store(filename string, data []byte) error
}

// DirStore keeps assets as files in one directory. Writes to distinct
// names may run concurrently; writes to the same name race and the last
// one wins.
type DirStore struct {
	dir string

	mu    sync.Mutex
	names map[string]struct{}
}

// NewDirStore creates the directory if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &DirStore{dir: dir, names: make(map[string]struct{})}, nil
}

// Dir returns the backing directory.
func (s *DirStore) Dir() string {
	return s.dir
}

// Store writes data to <dir>/<filename>. Filenames must not contain path
// separators.
func (s *DirStore) Store(filename string, data []byte) error {
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("invalid media filename %q", filename)
	}

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write media file: %w", err)
	}

	s.mu.Lock()
	s.names[filename] = struct{}{}
	s.mu.Unlock()
	return nil
}

// Path returns the full path of a stored file.
func (s *DirStore) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// Stored returns the names written through this store, sorted.
func (s *DirStore) Stored() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
