package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	stateDir  = ".snapgpt"
	indexFile = "index.json"
)

// Store owns the on-disk representation of the index for one project root.
// No other component reads or writes the index file directly.
type Store struct {
	dir  string
	path string
}

// NewStore creates a store rooted at <projectRoot>/.snapgpt/index.json.
func NewStore(projectRoot string) *Store {
	dir := filepath.Join(projectRoot, stateDir)
	return &Store{
		dir:  dir,
		path: filepath.Join(dir, indexFile),
	}
}

// Load reads the persisted index. A missing index file yields an empty index
// with no warning; a malformed one yields an empty index plus a warning
// describing why the next cycle will rebuild fully. Load never aborts a run:
// losing the index only costs one full rebuild.
func (s *Store) Load() (*Index, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return NewIndex(), nil
	}
	if err != nil {
		return NewIndex(), fmt.Errorf("index unreadable, forcing full rebuild: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return NewIndex(), fmt.Errorf("index corrupt, forcing full rebuild: %w", err)
	}
	if idx.Version > IndexVersion {
		return NewIndex(), fmt.Errorf("index version %d newer than supported %d, forcing full rebuild", idx.Version, IndexVersion)
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]*FileRecord)
	}
	return &idx, nil
}

// Save persists the index atomically: the JSON document is written to a
// temporary file in the state directory and renamed over the previous one,
// so a crash mid-write can never leave a half-written index.
func (s *Store) Save(idx *Index) error {
	if idx == nil {
		return fmt.Errorf("cannot save nil index")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	idx.Version = IndexVersion

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp index file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace index file: %w", err)
	}
	return nil
}

// Exists reports whether a persisted index is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Clear removes all persisted state for the project.
func (s *Store) Clear() error {
	return os.RemoveAll(s.dir)
}

// Path returns the location of the index file, for display purposes.
func (s *Store) Path() string {
	return s.path
}
