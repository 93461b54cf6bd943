package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config represents the persisted user configuration for snapgpt.
type Config struct {
	DefaultEditor       string      `mapstructure:"default_editor"`
	AutoCopyToClipboard bool        `mapstructure:"auto_copy_to_clipboard"`
	FileExtensions      []string    `mapstructure:"file_extensions"`
	ExcludeDirs         []string    `mapstructure:"exclude_dirs"`
	Watch               WatchConfig `mapstructure:"watch"`
}

// WatchConfig holds settings for continuous (watch) mode.
type WatchConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
}

// ValidEditors are the editors snapgpt knows how to launch.
var ValidEditors = []string{"cursor", "code", "windsurf", "zed", "xcode"}

// DefaultConfig values, applied when no config file exists.
var DefaultConfig = Config{
	DefaultEditor:       "cursor",
	AutoCopyToClipboard: true,
	FileExtensions: []string{
		".py", ".js", ".ts", ".jsx", ".tsx",
		".go", ".rs", ".java",
		".cpp", ".c", ".h",
		".toml", ".yaml", ".yml", ".json",
		".md",
	},
	ExcludeDirs: []string{
		"__pycache__", "build", "dist", "*.egg-info",
		"venv", ".venv", "env", "node_modules", "vendor", "third_party",
		".git", ".svn", ".hg",
		".idea", ".vscode", ".vs",
		".pytest_cache", ".coverage", "htmlcov",
		"tmp", "temp", ".cache",
		"logs", "log",
	},
	Watch: WatchConfig{DebounceMs: 1000},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// ConfigDir returns the directory holding the snapgpt config file.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "snapgpt"), nil
}

// LoadConfigs initializes the configuration from file, flags, and environment
// variables, and returns the final config. A missing config file is not an
// error; defaults apply.
func LoadConfigs(rootCmd *cobra.Command) (*Config, error) {
	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	} else {
		dir, err := ConfigDir()
		if err == nil {
			viper.AddConfigPath(dir)
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
			// Missing or unreadable config files fall back to defaults.
			_ = viper.ReadInConfig()
		}
	}

	bindFlags(rootCmd)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("default_editor", DefaultConfig.DefaultEditor)
	viper.SetDefault("auto_copy_to_clipboard", DefaultConfig.AutoCopyToClipboard)
	viper.SetDefault("file_extensions", DefaultConfig.FileExtensions)
	viper.SetDefault("exclude_dirs", DefaultConfig.ExcludeDirs)
	viper.SetDefault("watch.debounce_ms", DefaultConfig.Watch.DebounceMs)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("default_editor", "SNAPGPT_EDITOR")
	_ = viper.BindEnv("auto_copy_to_clipboard", "SNAPGPT_AUTO_COPY")
	_ = viper.BindEnv("watch.debounce_ms", "SNAPGPT_DEBOUNCE_MS")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("file_extensions", rootCmd.PersistentFlags().Lookup("extensions"))
	_ = viper.BindPFlag("exclude_dirs", rootCmd.PersistentFlags().Lookup("exclude-dirs"))
}

// InitFlags initializes the persistent flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (YAML). Defaults to $HOME/.config/snapgpt/config.yaml.")
	rootCmd.PersistentFlags().StringSliceP("extensions", "e", nil, "File extensions to include (overrides configured defaults)")
	rootCmd.PersistentFlags().StringSlice("exclude-dirs", nil, "Directories to exclude from scanning (overrides configured defaults)")
}

// SetDefaultEditor persists a new default editor choice.
func SetDefaultEditor(editor string) error {
	editor = strings.ToLower(editor)
	valid := false
	for _, e := range ValidEditors {
		if e == editor {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid editor: %s (valid: %s)", editor, strings.Join(ValidEditors, ", "))
	}
	return persist("default_editor", editor)
}

// SetDefaultExtensions persists a new extension allow-list. Bare extensions
// are normalized to include the leading dot.
func SetDefaultExtensions(extensions []string) error {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, strings.ToLower(ext))
	}
	return persist("file_extensions", normalized)
}

// SetDefaultExcludeDirs persists a new exclusion list.
func SetDefaultExcludeDirs(dirs []string) error {
	return persist("exclude_dirs", dirs)
}

// persist writes a single key into the config file, creating it if needed.
func persist(key string, value interface{}) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, value)
	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
