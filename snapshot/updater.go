package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/snapgpt/snapgpt/file_scanner"
)

// Mode says how a cycle updated the artifact.
type Mode string

const (
	// ModeRebuild regenerated the whole artifact from the current file set.
	ModeRebuild Mode = "rebuild"
	// ModePatch replaced only the changed sections in place.
	ModePatch Mode = "patch"
	// ModeNoop left the artifact byte-identical; nothing had changed.
	ModeNoop Mode = "noop"
)

// Result summarizes one completed snapshot cycle.
type Result struct {
	Mode      Mode
	Added     int
	Modified  int
	Removed   int
	Unchanged int
	// Warnings records degraded paths taken during the cycle: a corrupt
	// index, an unparseable artifact, unreadable files, a failed index
	// save. They are what distinguishes "incremental mode is working"
	// from "it silently rebuilt every time".
	Warnings []string
}

// Updater orchestrates snapshot cycles for one project root and output
// path. Cycles are serialized by a mutex: the index and the artifact have
// exactly one writer at a time, even when watch-mode timers fire close
// together.
type Updater struct {
	root  string
	out   string
	store *Store
	mu    sync.Mutex
}

// NewUpdater creates an updater writing the artifact to outputPath and
// keeping index state under projectRoot.
func NewUpdater(projectRoot, outputPath string) *Updater {
	return &Updater{
		root:  projectRoot,
		out:   outputPath,
		store: NewStore(projectRoot),
	}
}

// Store exposes the index store, e.g. for reset-index.
func (u *Updater) Store() *Store {
	return u.store
}

// OutputPath returns the artifact location.
func (u *Updater) OutputPath() string {
	return u.out
}

// plan is the tagged outcome of the patch-vs-rebuild decision: either a full
// rebuild, or a patch against the parsed prior artifact.
type plan struct {
	rebuild bool
	reason  string    // non-empty when rebuild was forced by a degraded path
	prior   *Artifact // parsed artifact, patch mode only
}

// RunCycle executes one snapshot cycle over the already-enumerated file set:
// load index, detect changes, patch or rebuild the artifact, persist the
// index. On any artifact write failure the prior artifact and prior index
// are left untouched and the error is returned. A failure to persist the
// index is only a warning; the cycle's artifact already succeeded and the
// next run will rebuild.
func (u *Updater) RunCycle(files []file_scanner.FileInfo, treeText string) (*Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	files = u.withoutOwnOutput(files)

	res := &Result{}

	idx, warn := u.store.Load()
	if warn != nil {
		res.Warnings = append(res.Warnings, warn.Error())
	}

	cs := Detect(files, idx)
	res.Warnings = append(res.Warnings, cs.Warnings...)
	res.Added = len(cs.Added)
	res.Modified = len(cs.Modified)
	res.Removed = len(cs.Removed)
	res.Unchanged = len(cs.Unchanged)

	p := u.decide(idx, cs)
	if p.reason != "" {
		res.Warnings = append(res.Warnings, p.reason)
	}

	var text string
	switch {
	case !p.rebuild && cs.IsEmpty():
		// Metadata may still have been refreshed (touched files); persist
		// the records without rewriting the artifact.
		res.Mode = ModeNoop
	case p.rebuild:
		res.Mode = ModeRebuild
		var warnings []string
		text, warnings = RenderFull(treeText, files)
		res.Warnings = append(res.Warnings, warnings...)
	default:
		res.Mode = ModePatch
		if len(cs.Added) > 0 || len(cs.Removed) > 0 {
			// The file set changed, so the tree preamble is stale too.
			p.prior.SetTree(treeText)
		}
		text = u.applyPatch(p.prior, cs, absPaths(files), res)
	}

	patchDisabled := idx.PatchDisabled
	if res.Mode != ModeNoop {
		patchDisabled = !roundTrips(text, cs.Records)
		if patchDisabled && !idx.PatchDisabled {
			res.Warnings = append(res.Warnings, "file content mimics section markers; incremental patching disabled")
		}
		if err := u.writeArtifact(text); err != nil {
			return nil, err
		}
	}

	if res.Mode == ModeNoop && idx.ArtifactPath == u.out && recordsEqual(idx.Entries, cs.Records) {
		// Nothing to persist either; the index on disk already matches.
		return res, nil
	}

	next := NewIndex()
	next.GeneratedAt = time.Now()
	next.ArtifactPath = u.out
	next.PatchDisabled = patchDisabled
	for _, rec := range cs.Records {
		next.Add(rec)
	}
	if err := u.store.Save(next); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("index not saved, next run rebuilds fully: %v", err))
	}

	return res, nil
}

// withoutOwnOutput drops the artifact itself from the enumeration. The
// output file often lives inside the project root with an allow-listed
// extension; tracking it would make each snapshot embed its own prior
// contents, marker lines included.
func (u *Updater) withoutOwnOutput(files []file_scanner.FileInfo) []file_scanner.FileInfo {
	out := filepath.Clean(u.out)
	kept := make([]file_scanner.FileInfo, 0, len(files))
	for _, f := range files {
		if filepath.Clean(f.AbsPath) == out {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// roundTrips reports whether the rendered document parses back into exactly
// the tracked sections. File content containing a line that reads like a
// section marker breaks that, and such a document must never be patched.
func roundTrips(text string, records map[string]*FileRecord) bool {
	parsed, err := ParseArtifact(text)
	if err != nil {
		return false
	}
	paths := parsed.Paths()
	if len(paths) != len(records) {
		return false
	}
	for _, path := range paths {
		if _, ok := records[path]; !ok {
			return false
		}
	}
	return true
}

// recordsEqual reports whether the stored entries already describe exactly
// the current records.
func recordsEqual(stored map[string]*FileRecord, current map[string]*FileRecord) bool {
	if len(stored) != len(current) {
		return false
	}
	for path, rec := range current {
		old, ok := stored[path]
		if !ok || *old != *rec {
			return false
		}
	}
	return true
}

// decide picks patch versus rebuild. Patching is only safe when the prior
// artifact exists, parses, and contains a section for every tracked path;
// anything else degrades to a full rebuild, which is always correct.
func (u *Updater) decide(idx *Index, cs *ChangeSet) plan {
	if idx.IsEmpty() {
		return plan{rebuild: true}
	}
	if idx.PatchDisabled {
		// Known marker-mimicking content; the artifact on disk does not
		// round-trip, so patching stays off until a rebuild clears it.
		return plan{rebuild: true}
	}

	data, err := os.ReadFile(u.out)
	if err != nil {
		return plan{rebuild: true, reason: fmt.Sprintf("artifact missing, rebuilding: %v", err)}
	}
	prior, err := ParseArtifact(string(data))
	if err != nil {
		return plan{rebuild: true, reason: fmt.Sprintf("artifact unparseable, rebuilding: %v", err)}
	}

	// Every unchanged or modified path must be relocatable; removed paths
	// must be deletable as whole sections.
	for path := range idx.Entries {
		if !prior.Has(path) {
			return plan{rebuild: true, reason: fmt.Sprintf("artifact lost section for %s, rebuilding", path)}
		}
	}

	return plan{prior: prior}
}

// absPaths maps each enumerated file's relative path to its absolute one.
func absPaths(files []file_scanner.FileInfo) map[string]string {
	m := make(map[string]string, len(files))
	for _, f := range files {
		m[f.RelPath] = f.AbsPath
	}
	return m
}

// applyPatch edits the changed sections of the prior artifact in place.
// Unchanged sections are not rewritten and stay byte-identical. A file that
// cannot be read keeps the cycle alive with an error-note section.
func (u *Updater) applyPatch(prior *Artifact, cs *ChangeSet, abs map[string]string, res *Result) string {
	for _, path := range append(append([]string(nil), cs.Modified...), cs.Added...) {
		target, ok := abs[path]
		if !ok {
			target = filepath.Join(u.root, filepath.FromSlash(path))
		}
		content, err := os.ReadFile(target)
		if err != nil {
			prior.Replace(path, readErrorNote(path, err))
			res.Warnings = append(res.Warnings, fmt.Sprintf("unreadable file %s: %v", path, err))
			continue
		}
		prior.Replace(path, string(content))
	}
	for _, path := range cs.Removed {
		prior.Delete(path)
	}
	return prior.Render()
}

// writeArtifact writes the document atomically next to its final location.
// A failure here aborts the cycle with the previous artifact intact.
func (u *Updater) writeArtifact(text string) error {
	dir := filepath.Dir(u.out)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	tmpPath := u.out + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmpPath, u.out); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace artifact: %w", err)
	}
	return nil
}
