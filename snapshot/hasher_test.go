package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFile_MatchesHashBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	content := []byte("some file content\nwith two lines\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	fromFile, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, HashBytes(content), fromFile)
	assert.Len(t, fromFile, 32, "xxh3-128 hex digest")
}

func TestHashBytes_Distinguishes(t *testing.T) {
	assert.NotEqual(t, HashBytes([]byte("a")), HashBytes([]byte("b")))
	assert.Equal(t, HashBytes(nil), HashBytes([]byte{}))
}

func TestHashFile_Missing(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
