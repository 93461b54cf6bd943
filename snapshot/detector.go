package snapshot

import (
	"fmt"
	"sort"

	"github.com/snapgpt/snapgpt/file_scanner"
)

// ChangeSet classifies the current file enumeration against the stored
// index. The four path sets are disjoint. Records carries a fresh FileRecord
// for every currently present file so the updater can persist the new index
// without re-stating anything.
type ChangeSet struct {
	Unchanged []string
	Modified  []string
	Added     []string
	Removed   []string

	Records map[string]*FileRecord

	// Warnings records per-file hashing failures hit during detection.
	Warnings []string
}

// IsEmpty reports whether nothing changed (added, modified, or removed).
func (cs *ChangeSet) IsEmpty() bool {
	if cs == nil {
		return true
	}
	return len(cs.Added) == 0 && len(cs.Modified) == 0 && len(cs.Removed) == 0
}

// TotalChanges returns the number of paths needing artifact updates.
func (cs *ChangeSet) TotalChanges() int {
	if cs == nil {
		return 0
	}
	return len(cs.Added) + len(cs.Modified) + len(cs.Removed)
}

// Detect compares the enumerated files against the index.
//
// The fast path never touches file contents: when both size and mtime match
// the stored record the fingerprint is assumed unchanged. When metadata
// differs the file is hashed; an equal fingerprint (a touch) refreshes the
// stored metadata and still counts as unchanged. A file whose contents
// cannot be hashed is classified as changed, never silently unchanged.
// Renames are not detected: a moved file is an independent add plus remove.
func Detect(current []file_scanner.FileInfo, idx *Index) *ChangeSet {
	cs := &ChangeSet{Records: make(map[string]*FileRecord, len(current))}
	seen := make(map[string]bool, len(current))

	for _, f := range current {
		seen[f.RelPath] = true

		rec, ok := idx.Get(f.RelPath)
		if !ok {
			fingerprint, err := HashFile(f.AbsPath)
			if err != nil {
				fingerprint = ""
				cs.Warnings = append(cs.Warnings, fmt.Sprintf("failed to hash %s: %v", f.RelPath, err))
			}
			cs.Added = append(cs.Added, f.RelPath)
			cs.Records[f.RelPath] = &FileRecord{
				Path: f.RelPath, Fingerprint: fingerprint, Size: f.Size, ModTime: f.ModTime,
			}
			continue
		}

		if rec.Size == f.Size && rec.ModTime == f.ModTime {
			cs.Unchanged = append(cs.Unchanged, f.RelPath)
			cs.Records[f.RelPath] = rec
			continue
		}

		fingerprint, err := HashFile(f.AbsPath)
		if err != nil {
			cs.Warnings = append(cs.Warnings, fmt.Sprintf("failed to hash %s: %v", f.RelPath, err))
		}
		fresh := &FileRecord{
			Path: f.RelPath, Fingerprint: fingerprint, Size: f.Size, ModTime: f.ModTime,
		}
		cs.Records[f.RelPath] = fresh

		if err == nil && fingerprint == rec.Fingerprint {
			// Metadata churn without content change (e.g. touch).
			cs.Unchanged = append(cs.Unchanged, f.RelPath)
			continue
		}
		cs.Modified = append(cs.Modified, f.RelPath)
	}

	for path := range idx.Entries {
		if !seen[path] {
			cs.Removed = append(cs.Removed, path)
		}
	}

	sort.Strings(cs.Unchanged)
	sort.Strings(cs.Modified)
	sort.Strings(cs.Added)
	sort.Strings(cs.Removed)
	return cs
}
