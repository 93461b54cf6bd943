// Package snapshot implements the incremental snapshot engine: a persisted
// content-hash index over the tracked files, change detection against it,
// and an updater that either patches the snapshot artifact in place or
// rebuilds it from scratch.
package snapshot

import "time"

// IndexVersion is the current version of the persisted index format.
const IndexVersion = 1

// FileRecord holds the last-known state of one tracked file.
type FileRecord struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"` // xxh3-128 hex of file contents
	Size        int64  `json:"size"`
	ModTime     int64  `json:"mtime_ns"` // UnixNano
}

// Index is the persisted state for one project root. Every path in Entries
// corresponds to a section of the artifact at ArtifactPath, unless the
// artifact has never been written.
type Index struct {
	Version      int       `json:"version"`
	GeneratedAt  time.Time `json:"generated_at"`
	ArtifactPath string    `json:"artifact_path"`
	// PatchDisabled is set when the last written artifact does not parse
	// back into its tracked sections (file content mimicking a marker
	// line). While set, every cycle rebuilds fully.
	PatchDisabled bool                   `json:"patch_disabled,omitempty"`
	Entries       map[string]*FileRecord `json:"entries"`
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		Version:     IndexVersion,
		GeneratedAt: time.Now(),
		Entries:     make(map[string]*FileRecord),
	}
}

// IsEmpty reports whether the index tracks no files.
func (idx *Index) IsEmpty() bool {
	return idx == nil || len(idx.Entries) == 0
}

// Add inserts or replaces a record.
func (idx *Index) Add(rec *FileRecord) {
	if idx == nil || rec == nil {
		return
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]*FileRecord)
	}
	idx.Entries[rec.Path] = rec
}

// Get retrieves a record by path.
func (idx *Index) Get(path string) (*FileRecord, bool) {
	if idx == nil || idx.Entries == nil {
		return nil, false
	}
	rec, ok := idx.Entries[path]
	return rec, ok
}
