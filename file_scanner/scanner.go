// Package file_scanner enumerates candidate files under one or more project
// roots and renders the directory-tree preamble used at the top of a
// snapshot artifact.
package file_scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileInfo describes one candidate file found by a scan.
type FileInfo struct {
	RelPath string // project-root-relative path with forward slashes
	AbsPath string // absolute filesystem path
	Size    int64  // size in bytes
	ModTime int64  // modification time, UnixNano
}

// ScanConfig configures the scanner.
type ScanConfig struct {
	Roots       []string // directories to scan; the first is the project root
	Files       []string // explicit file list; when set, Roots are not walked
	Extensions  []string // allow-list, lowercase with leading dot
	ExcludeDirs []string // exclusion patterns applied per path element
	MaxFileSize int64    // bytes, 0 = no limit
	MaxDepth    int      // 0 = no limit
}

// Scanner walks the configured roots and collects included files.
type Scanner struct {
	cfg        ScanConfig
	extensions map[string]bool
}

// NewScanner creates a scanner with the given config.
func NewScanner(cfg ScanConfig) *Scanner {
	extensions := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		extensions[strings.ToLower(ext)] = true
	}
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}
	return &Scanner{cfg: cfg, extensions: extensions}
}

// ProjectRoot returns the absolute path of the primary root.
func (s *Scanner) ProjectRoot() (string, error) {
	return filepath.Abs(s.cfg.Roots[0])
}

// Scan walks all roots and returns the included files in deterministic order
// along with the rendered directory tree text.
func (s *Scanner) Scan() ([]FileInfo, string, error) {
	if len(s.cfg.Files) > 0 {
		return s.scanExplicit()
	}

	var files []FileInfo
	treeLines := []string{"# Directory Structure", ""}
	visited := make(map[string]bool)
	usedPrefixes := make(map[string]bool)

	for i, root := range s.cfg.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve root %s: %w", root, err)
		}
		if visited[abs] {
			continue
		}
		visited[abs] = true

		prefix := ""
		if i == 0 {
			// Top-level names of the primary root claim their prefixes so a
			// secondary root cannot collide with them.
			if entries, err := os.ReadDir(abs); err == nil {
				for _, entry := range entries {
					usedPrefixes[entry.Name()] = true
				}
			}
		} else {
			base := filepath.Base(abs)
			prefix = base
			for n := 2; usedPrefixes[prefix]; n++ {
				prefix = fmt.Sprintf("%s-%d", base, n)
			}
			usedPrefixes[prefix] = true
		}
		if err := s.walk(abs, prefix, 0, &files, &treeLines); err != nil {
			return nil, "", err
		}
		treeLines = append(treeLines, "")
	}

	return files, strings.Join(treeLines, "\n"), nil
}

// scanExplicit serves an explicit file list: no walking, no extension or
// exclusion filtering — the user named these files deliberately. A listed
// file that cannot be read is an error, not a skip.
func (s *Scanner) scanExplicit() ([]FileInfo, string, error) {
	root, err := s.ProjectRoot()
	if err != nil {
		return nil, "", err
	}

	var files []FileInfo
	treeLines := []string{"# Directory Structure", ""}
	seen := make(map[string]bool)

	for _, listed := range s.cfg.Files {
		abs, err := filepath.Abs(listed)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve file %s: %w", listed, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, "", fmt.Errorf("listed file %s: %w", listed, err)
		}
		if info.IsDir() {
			return nil, "", fmt.Errorf("listed path %s is a directory", listed)
		}

		rel, err := filepath.Rel(root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(abs)
		}
		rel = filepath.ToSlash(rel)
		if seen[rel] {
			continue
		}
		seen[rel] = true

		treeLines = append(treeLines, "- "+rel)
		files = append(files, FileInfo{
			RelPath: rel,
			AbsPath: abs,
			Size:    info.Size(),
			ModTime: info.ModTime().UnixNano(),
		})
	}

	treeLines = append(treeLines, "")
	return files, strings.Join(treeLines, "\n"), nil
}

// walk recurses into dir. rel is the project-relative path of dir ("" for the
// primary root itself), depth the recursion depth for the MaxDepth cutoff.
func (s *Scanner) walk(dir, rel string, depth int, files *[]FileInfo, treeLines *[]string) error {
	if s.cfg.MaxDepth > 0 && depth > s.cfg.MaxDepth {
		return nil
	}

	name := filepath.Base(dir)
	if depth == 0 && rel != "" {
		name = rel // disambiguated secondary-root prefix
	}
	indent := strings.Repeat("  ", depth)
	*treeLines = append(*treeLines, fmt.Sprintf("%s- %s/", indent, name))

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directories are skipped, not fatal.
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		entryName := entry.Name()
		if isHidden(entryName) {
			continue
		}

		entryRel := entryName
		if rel != "" {
			entryRel = rel + "/" + entryName
		}
		if IsExcluded(entryRel, s.cfg.ExcludeDirs) {
			continue
		}

		entryAbs := filepath.Join(dir, entryName)
		if entry.IsDir() {
			if err := s.walk(entryAbs, entryRel, depth+1, files, treeLines); err != nil {
				return err
			}
			continue
		}

		*treeLines = append(*treeLines, fmt.Sprintf("%s  - %s", indent, entryName))

		if !s.extensions[strings.ToLower(filepath.Ext(entryName))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if s.cfg.MaxFileSize > 0 && info.Size() > s.cfg.MaxFileSize {
			continue
		}

		*files = append(*files, FileInfo{
			RelPath: entryRel,
			AbsPath: entryAbs,
			Size:    info.Size(),
			ModTime: info.ModTime().UnixNano(),
		})
	}

	return nil
}

// IsIncluded reports whether a single absolute path would be collected by
// this scanner. Used by the watcher to drop events for irrelevant files
// before arming a debounce timer.
func (s *Scanner) IsIncluded(absPath string) bool {
	root, err := s.ProjectRoot()
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}

	if !s.extensions[strings.ToLower(filepath.Ext(absPath))] {
		return false
	}
	if IsExcluded(rel, s.cfg.ExcludeDirs) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if isHidden(part) {
			return false
		}
	}
	if s.cfg.MaxFileSize > 0 {
		if info, err := os.Stat(absPath); err == nil && info.Size() > s.cfg.MaxFileSize {
			return false
		}
	}
	return true
}
