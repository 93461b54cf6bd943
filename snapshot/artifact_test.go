package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerLine_Format(t *testing.T) {
	assert.Equal(t, "# ======= File: src/main.py =======", MarkerLine("src/main.py"))
}

func TestArtifact_RenderParseRoundTrip(t *testing.T) {
	a := NewArtifact("# Directory Structure\n\n- proj/\n  - a.txt\n  - b.txt\n")
	a.Replace("a.txt", "alpha\n")
	a.Replace("b.txt", "beta") // no trailing newline in the source file

	text := a.Render()

	parsed, err := ParseArtifact(text)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, parsed.Paths())

	gotA, ok := parsed.Section("a.txt")
	require.True(t, ok)
	assert.Equal(t, "alpha\n\n", gotA)

	gotB, ok := parsed.Section("b.txt")
	require.True(t, ok)
	assert.Equal(t, "beta\n\n", gotB, "missing trailing newline is normalized")

	// Round trip is a fixed point: parse(render(parse(x))) == parse(x).
	assert.Equal(t, text, parsed.Render())
}

func TestArtifact_SectionBodyPreservesMarkerLikeContent(t *testing.T) {
	// Content that merely resembles a marker but is not one must survive.
	body := "prefix\n# ======= File-ish but not a marker\nsuffix\n"
	a := NewArtifact("# Directory Structure\n\n- proj/\n  - odd.txt\n")
	a.Replace("odd.txt", body)

	parsed, err := ParseArtifact(a.Render())
	require.NoError(t, err)
	got, ok := parsed.Section("odd.txt")
	require.True(t, ok)
	assert.Equal(t, body+"\n", got)
}

func TestParseArtifact_MissingHeader(t *testing.T) {
	_, err := ParseArtifact("just some text\nwithout the header\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no contents header")
}

func TestParseArtifact_DuplicateSection(t *testing.T) {
	text := strings.Join([]string{
		"# ======= File Contents =======",
		"",
		MarkerLine("a.txt"),
		"alpha",
		"",
		MarkerLine("a.txt"),
		"alpha again",
		"",
	}, "\n")
	_, err := ParseArtifact(text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate section")
}

func TestParseArtifact_EmptySectionTag(t *testing.T) {
	text := strings.Join([]string{
		"# ======= File Contents =======",
		"",
		"# ======= File:  =======",
		"body",
		"",
	}, "\n")
	_, err := ParseArtifact(text)
	require.Error(t, err)
}

func TestArtifact_ReplaceAppendsNewSectionAtEnd(t *testing.T) {
	a := NewArtifact("tree")
	a.Replace("a.txt", "alpha\n")
	a.Replace("b.txt", "beta\n")
	a.Replace("a.txt", "alpha v2\n") // replacing keeps document position

	assert.Equal(t, []string{"a.txt", "b.txt"}, a.Paths())

	a.Replace("c.txt", "gamma\n")
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, a.Paths())
}

func TestArtifact_Delete(t *testing.T) {
	a := NewArtifact("tree")
	a.Replace("a.txt", "alpha\n")
	a.Replace("b.txt", "beta\n")

	a.Delete("a.txt")
	assert.False(t, a.Has("a.txt"))
	assert.Equal(t, []string{"b.txt"}, a.Paths())
	assert.NotContains(t, a.Render(), MarkerLine("a.txt"))

	// Deleting a missing path is a no-op.
	a.Delete("never-there.txt")
	assert.Equal(t, []string{"b.txt"}, a.Paths())
}

func TestArtifact_SetTreeKeepsSections(t *testing.T) {
	a := NewArtifact("# Directory Structure\n\n- proj/\n  - a.txt\n")
	a.Replace("a.txt", "alpha\n")
	before, _ := a.Section("a.txt")

	a.SetTree("# Directory Structure\n\n- proj/\n  - a.txt\n  - b.txt\n")

	after, ok := a.Section("a.txt")
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Contains(t, a.Render(), "- b.txt")
}
