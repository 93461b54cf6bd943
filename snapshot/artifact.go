package snapshot

import (
	"fmt"
	"os"
	"strings"

	"github.com/snapgpt/snapgpt/file_scanner"
)

// Artifact markers. Each tracked file occupies one delimited section tagged
// with its project-relative path so the patch path can relocate it without
// re-emitting the whole document.
const (
	contentsHeader = "# ======= File Contents ======="
	sectionPrefix  = "# ======= File: "
	sectionSuffix  = " ======="
)

// MarkerLine returns the section delimiter line for a path.
func MarkerLine(path string) string {
	return sectionPrefix + path + sectionSuffix
}

// Artifact is the parsed form of a snapshot document: the directory-tree
// preamble plus one body per tracked path, in document order. Bodies hold
// the verbatim bytes between delimiters, so sections left untouched render
// back byte-identical.
type Artifact struct {
	preamble string
	order    []string
	sections map[string]string
}

// NewArtifact creates an empty artifact with the given tree preamble.
func NewArtifact(treeText string) *Artifact {
	return &Artifact{
		preamble: renderPreamble(treeText),
		sections: make(map[string]string),
	}
}

// ParseArtifact reconstructs an Artifact from a previously written document.
// Any document that cannot be parsed is reported as an error; callers treat
// that the same as a missing artifact and rebuild fully.
func ParseArtifact(text string) (*Artifact, error) {
	lines := strings.SplitAfter(text, "\n")

	headerAt := -1
	for i, line := range lines {
		if strings.TrimRight(line, "\n") == contentsHeader {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, fmt.Errorf("artifact has no contents header")
	}

	a := &Artifact{sections: make(map[string]string)}
	var preamble strings.Builder
	for _, line := range lines[:headerAt+1] {
		preamble.WriteString(line)
	}

	current := ""
	var body strings.Builder
	flush := func() {
		if current != "" {
			a.sections[current] = body.String()
			body.Reset()
		}
	}

	for _, line := range lines[headerAt+1:] {
		trimmed := strings.TrimRight(line, "\n")
		if strings.HasPrefix(trimmed, sectionPrefix) && strings.HasSuffix(trimmed, sectionSuffix) {
			path := trimmed[len(sectionPrefix) : len(trimmed)-len(sectionSuffix)]
			if path == "" {
				return nil, fmt.Errorf("artifact contains an empty section tag")
			}
			if _, dup := a.sections[path]; dup {
				return nil, fmt.Errorf("artifact contains duplicate section for %s", path)
			}
			flush()
			current = path
			a.sections[path] = "" // reserve for duplicate detection
			a.order = append(a.order, path)
			continue
		}
		if current == "" {
			preamble.WriteString(line)
			continue
		}
		body.WriteString(line)
	}
	flush()

	a.preamble = preamble.String()
	return a, nil
}

// SetTree replaces the directory-tree preamble, leaving all sections
// untouched. Used by the patch path when the file set itself changed.
func (a *Artifact) SetTree(treeText string) {
	a.preamble = renderPreamble(treeText)
}

// Has reports whether a section exists for the path.
func (a *Artifact) Has(path string) bool {
	_, ok := a.sections[path]
	return ok
}

// Paths returns the section paths in document order.
func (a *Artifact) Paths() []string {
	return append([]string(nil), a.order...)
}

// Section returns the raw body stored for a path.
func (a *Artifact) Section(path string) (string, bool) {
	body, ok := a.sections[path]
	return body, ok
}

// Replace overwrites the section body for a path with new file content,
// appending a new section at the end of the document when none exists yet.
func (a *Artifact) Replace(path, content string) {
	if _, ok := a.sections[path]; !ok {
		a.order = append(a.order, path)
	}
	a.sections[path] = renderBody(content)
}

// Delete drops a path's section entirely.
func (a *Artifact) Delete(path string) {
	if _, ok := a.sections[path]; !ok {
		return
	}
	delete(a.sections, path)
	for i, p := range a.order {
		if p == path {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Render serializes the artifact back to document text.
func (a *Artifact) Render() string {
	var b strings.Builder
	b.WriteString(a.preamble)
	for _, path := range a.order {
		b.WriteString(MarkerLine(path))
		b.WriteString("\n")
		b.WriteString(a.sections[path])
	}
	return b.String()
}

// RenderFull produces a complete artifact from the current file set. A file
// that cannot be read contributes an error-note section instead of aborting
// the document; the returned warnings surface those per-file failures.
func RenderFull(treeText string, files []file_scanner.FileInfo) (string, []string) {
	a := NewArtifact(treeText)
	var warnings []string
	for _, f := range files {
		content, err := os.ReadFile(f.AbsPath)
		if err != nil {
			a.Replace(f.RelPath, readErrorNote(f.RelPath, err))
			warnings = append(warnings, fmt.Sprintf("unreadable file %s: %v", f.RelPath, err))
			continue
		}
		a.Replace(f.RelPath, string(content))
	}
	return a.Render(), warnings
}

func renderPreamble(treeText string) string {
	return strings.TrimRight(treeText, "\n") + "\n\n" + contentsHeader + "\n\n"
}

// renderBody normalizes file content into a section body: the content with a
// guaranteed trailing newline, followed by one blank separator line.
func renderBody(content string) string {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n"
}

func readErrorNote(path string, err error) string {
	return fmt.Sprintf("# ERROR reading %s: %v", path, err)
}
