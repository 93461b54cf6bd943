package snapshot

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_AgainstEmptyIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha\n")
	files, _ := scanProject(t, root)

	cs := Detect(files, NewIndex())
	assert.Equal(t, []string{"a.txt"}, cs.Added)
	assert.Empty(t, cs.Unchanged)
	assert.Empty(t, cs.Removed)
	assert.False(t, cs.IsEmpty())
	assert.Equal(t, 1, cs.TotalChanges())

	rec := cs.Records["a.txt"]
	require.NotNil(t, rec)
	assert.Equal(t, HashBytes([]byte("alpha\n")), rec.Fingerprint)
}

func TestDetect_MetadataFastPathSkipsHashing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha\n")
	files, _ := scanProject(t, root)

	// A record with matching size and mtime but a bogus fingerprint: if the
	// fast path is taken the bogus fingerprint survives untouched, proving
	// the file was never hashed.
	idx := NewIndex()
	idx.Add(&FileRecord{
		Path:        "a.txt",
		Fingerprint: "bogus-fingerprint",
		Size:        files[0].Size,
		ModTime:     files[0].ModTime,
	})

	cs := Detect(files, idx)
	assert.Equal(t, []string{"a.txt"}, cs.Unchanged)
	assert.True(t, cs.IsEmpty())
	assert.Equal(t, "bogus-fingerprint", cs.Records["a.txt"].Fingerprint)
}

func TestDetect_ContentChangeIsModified(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha\n")
	files, _ := scanProject(t, root)

	idx := NewIndex()
	idx.Add(&FileRecord{
		Path:        "a.txt",
		Fingerprint: HashBytes([]byte("previous content\n")),
		Size:        files[0].Size + 10, // metadata mismatch forces hashing
		ModTime:     files[0].ModTime,
	})

	cs := Detect(files, idx)
	assert.Equal(t, []string{"a.txt"}, cs.Modified)
	assert.Equal(t, HashBytes([]byte("alpha\n")), cs.Records["a.txt"].Fingerprint)
}

func TestDetect_TouchedFileIsUnchangedWithRefreshedRecord(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "alpha\n")
	files, _ := scanProject(t, root)

	idx := NewIndex()
	idx.Add(&FileRecord{
		Path:        "a.txt",
		Fingerprint: HashBytes([]byte("alpha\n")),
		Size:        files[0].Size,
		ModTime:     files[0].ModTime - 5_000_000_000, // stale mtime
	})

	cs := Detect(files, idx)
	assert.Equal(t, []string{"a.txt"}, cs.Unchanged)
	assert.True(t, cs.IsEmpty())
	// The record must carry the fresh metadata so the next run can take the
	// fast path again.
	assert.Equal(t, files[0].ModTime, cs.Records["a.txt"].ModTime)
}

func TestDetect_RemovedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", "kept\n")
	files, _ := scanProject(t, root)

	idx := NewIndex()
	idx.Add(&FileRecord{Path: "keep.txt", Fingerprint: HashBytes([]byte("kept\n")), Size: files[0].Size, ModTime: files[0].ModTime})
	idx.Add(&FileRecord{Path: "gone.txt", Fingerprint: "whatever", Size: 3, ModTime: 1})

	cs := Detect(files, idx)
	assert.Equal(t, []string{"gone.txt"}, cs.Removed)
	assert.Equal(t, []string{"keep.txt"}, cs.Unchanged)
	_, tracked := cs.Records["gone.txt"]
	assert.False(t, tracked, "removed paths carry no record forward")
}

func TestDetect_HashErrorOnAddedFileSurfacesWarning(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.txt", "alpha\n")
	files, _ := scanProject(t, root)

	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })
	if _, err := os.ReadFile(path); err == nil {
		t.Skip("running as a user unaffected by file permissions")
	}

	cs := Detect(files, NewIndex())
	assert.Equal(t, []string{"a.txt"}, cs.Added)
	require.NotEmpty(t, cs.Warnings)
	assert.Contains(t, cs.Warnings[0], "failed to hash a.txt")
}

func TestDetect_UnreadableFileNeverPassesForUnchanged(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.txt", "alpha\n")
	files, _ := scanProject(t, root)

	idx := NewIndex()
	idx.Add(&FileRecord{
		Path:        "a.txt",
		Fingerprint: HashBytes([]byte("alpha\n")),
		Size:        files[0].Size + 1, // force the hash path
		ModTime:     files[0].ModTime,
	})

	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })
	if _, err := os.ReadFile(path); err == nil {
		t.Skip("running as a user unaffected by file permissions")
	}

	cs := Detect(files, idx)
	assert.Equal(t, []string{"a.txt"}, cs.Modified)
}
