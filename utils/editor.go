package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// editorCommands maps editor names to the CLI command they install.
var editorCommands = map[string]string{
	"cursor":   "cursor",
	"code":     "code",
	"windsurf": "windsurf",
	"zed":      "zed",
	"xcode":    "xed",
}

// wellKnownEditorPaths lists install locations checked when the editor's CLI
// command is not on PATH.
var wellKnownEditorPaths = map[string][]string{
	"cursor": {
		"/Applications/Cursor.app/Contents/MacOS/Cursor",
		"/usr/local/bin/cursor",
	},
	"code": {
		"/Applications/Visual Studio Code.app/Contents/Resources/app/bin/code",
		"/usr/local/bin/code",
	},
	"windsurf": {
		"/Applications/Windsurf.app/Contents/MacOS/Windsurf",
		"/usr/local/bin/windsurf",
	},
	"zed": {
		"/Applications/Zed.app/Contents/MacOS/Zed",
		"/usr/local/bin/zed",
	},
}

// OpenInEditor opens the snapshot file (and its directory) in the chosen
// editor, falling back to the system opener. Launch failures are returned
// but never affect engine state; the snapshot cycle has already completed.
func OpenInEditor(filePath, editor string) error {
	if editor == "xcode" && runtime.GOOS != "darwin" {
		return fmt.Errorf("xcode is only available on macOS")
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to resolve snapshot path: %w", err)
	}

	if binary := findEditorBinary(editor); binary != "" {
		cmd := exec.Command(binary, filepath.Dir(abs), abs)
		cmd.Stderr = nil
		if err := cmd.Start(); err == nil {
			return nil
		}
	}

	return openWithSystemDefault(abs)
}

// findEditorBinary resolves the editor's executable via PATH lookup first,
// then the well-known install locations.
func findEditorBinary(editor string) string {
	command, ok := editorCommands[editor]
	if !ok {
		return ""
	}
	if path, err := exec.LookPath(command); err == nil {
		return path
	}
	for _, candidate := range wellKnownEditorPaths[editor] {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// openWithSystemDefault hands the file to the platform opener.
func openWithSystemDefault(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/C", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s in any editor: %w", path, err)
	}
	return nil
}
