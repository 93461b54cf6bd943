package file_scanner

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultIgnoredNames are always skipped regardless of the configured
// exclusion list. They cover VCS metadata, snapgpt's own state, and
// editor droppings that never belong in a snapshot.
var defaultIgnoredNames = []string{
	".snapgpt",
	".git",
	".svn",
	".hg",
	".DS_Store",
}

// IsExcluded reports whether any element of the relative path matches one of
// the exclusion patterns. Patterns support doublestar globs ("*.egg-info")
// and plain directory names ("node_modules").
func IsExcluded(relPath string, patterns []string) bool {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		for _, name := range defaultIgnoredNames {
			if part == name {
				return true
			}
		}
		for _, pattern := range patterns {
			if ok, err := doublestar.Match(pattern, part); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// isHidden reports whether a file or directory name is dot-prefixed.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
