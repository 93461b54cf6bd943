package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// languageByExtension maps file extensions to chroma lexer names for the
// preview command.
var languageByExtension = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "jsx",
	".ts":   "typescript",
	".tsx":  "tsx",
	".go":   "go",
	".rs":   "rust",
	".java": "java",
	".cpp":  "cpp",
	".c":    "c",
	".h":    "c",
	".toml": "toml",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".md":   "markdown",
}

// DetectLanguage returns the chroma lexer name for a file path, defaulting
// to plain text.
func DetectLanguage(path string) string {
	if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "text"
}

// HighlightToStdout renders source text to the terminal with syntax
// highlighting.
func HighlightToStdout(content, language, theme string) error {
	return quick.Highlight(os.Stdout, content, language, "terminal256", theme)
}
