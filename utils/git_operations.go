package utils

import (
	"os"
	"os/exec"
	"path/filepath"
)

// IsGitRepository reports whether dir is inside a git working tree. It
// prefers asking git itself and falls back to walking up for a .git entry
// when git is not installed.
func IsGitRepository(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = dir
	if err := cmd.Run(); err == nil {
		return true
	}
	if _, err := exec.LookPath("git"); err == nil {
		return false
	}

	current, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	for {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return false
		}
		current = parent
	}
}

// systemDirectories are roots snapgpt refuses to scan without confirmation.
var systemDirectories = []string{
	"/System", "/Library", "/Applications", "/usr", "/bin", "/sbin",
	"/etc", "/var", "/opt", "/root", "/lib", "/dev",
	`C:\Windows`, `C:\Program Files`, `C:\Program Files (x86)`,
}

// IsSystemDirectory reports whether path is one of the platform system
// roots. Snapshotting those is almost always a mistake.
func IsSystemDirectory(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	normalized := filepath.Clean(abs)
	for _, sysDir := range systemDirectories {
		if normalized == filepath.Clean(sysDir) {
			return true
		}
	}
	return false
}
