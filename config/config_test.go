package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRoot builds a root command carrying the persistent flags that
// LoadConfigs binds against.
func newTestRoot() *cobra.Command {
	cmd := &cobra.Command{Use: "snapgpt"}
	InitFlags(cmd)
	return cmd
}

func resetState(t *testing.T) {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	t.Setenv("HOME", t.TempDir())
}

func TestLoadConfigs_Defaults(t *testing.T) {
	resetState(t)

	cfg, err := LoadConfigs(newTestRoot())
	require.NoError(t, err)

	assert.Equal(t, "cursor", cfg.DefaultEditor)
	assert.True(t, cfg.AutoCopyToClipboard)
	assert.Contains(t, cfg.FileExtensions, ".go")
	assert.Contains(t, cfg.FileExtensions, ".py")
	assert.Contains(t, cfg.ExcludeDirs, "node_modules")
	assert.Contains(t, cfg.ExcludeDirs, "__pycache__")
	assert.Equal(t, 1000, cfg.Watch.DebounceMs)
}

func TestLoadConfigs_FromFile(t *testing.T) {
	resetState(t)
	// InitFlags resets cfgFile to its flag default, so the command must be
	// built before pointing cfgFile at the fixture.
	rootCmd := newTestRoot()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "default_editor: zed\nauto_copy_to_clipboard: false\nwatch:\n  debounce_ms: 250\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	cfgFile = path

	cfg, err := LoadConfigs(rootCmd)
	require.NoError(t, err)

	assert.Equal(t, "zed", cfg.DefaultEditor)
	assert.False(t, cfg.AutoCopyToClipboard)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
	// Unset keys keep their defaults.
	assert.Contains(t, cfg.FileExtensions, ".go")
}

func TestLoadConfigs_MissingExplicitFileFails(t *testing.T) {
	resetState(t)
	rootCmd := newTestRoot()
	cfgFile = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := LoadConfigs(rootCmd)
	require.Error(t, err)
}

func TestLoadConfigs_EnvOverride(t *testing.T) {
	resetState(t)
	t.Setenv("SNAPGPT_EDITOR", "code")

	cfg, err := LoadConfigs(newTestRoot())
	require.NoError(t, err)
	assert.Equal(t, "code", cfg.DefaultEditor)
}

func TestSetDefaultEditor_RejectsUnknown(t *testing.T) {
	resetState(t)

	err := SetDefaultEditor("emacs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid editor")
}

func TestSetDefaultEditor_Persists(t *testing.T) {
	resetState(t)

	require.NoError(t, SetDefaultEditor("Zed"))

	dir, err := ConfigDir()
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "zed")
}

func TestSetDefaultExtensions_NormalizesDots(t *testing.T) {
	resetState(t)

	require.NoError(t, SetDefaultExtensions([]string{"py", ".GO", "rs"}))
	assert.Equal(t, []string{".py", ".go", ".rs"}, viper.GetStringSlice("file_extensions"))
}
