package storage

import (
	"path/filepath"
	"testing"
)

func TestReadTitles(t *testing.T) {
	content := `## Epics

### Epic 1: Foundation
- 1.1 Project setup
- 1.2 CI pipeline

### Epic 2: Board API
Some prose in between.
- 2.1 Snapshot endpoint
`
	dir := t.TempDir()
	path := writeFile(t, dir, "epics.md", content)

	epicTitles, storyTitles := ReadTitles([]string{path})

	if epicTitles[1] != "Foundation" || epicTitles[2] != "Board API" {
		t.Errorf("unexpected epic titles: %v", epicTitles)
	}
	if storyTitles["1-1"] != "Project setup" {
		t.Errorf("story 1-1 = %q, want %q", storyTitles["1-1"], "Project setup")
	}
	if storyTitles["2-1"] != "Snapshot endpoint" {
		t.Errorf("story 2-1 = %q, want %q", storyTitles["2-1"], "Snapshot endpoint")
	}
	if len(storyTitles) != 3 {
		t.Errorf("expected 3 story titles, got %v", storyTitles)
	}
}

func TestReadTitles_LaterDocumentWins(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.md", "### Epic 1: Old title\n- 1.1 Old story\n")
	second := writeFile(t, dir, "second.md", "### Epic 1: New title\n")

	epicTitles, storyTitles := ReadTitles([]string{first, second})

	if epicTitles[1] != "New title" {
		t.Errorf("epic 1 = %q, want later document to overwrite", epicTitles[1])
	}
	// The second document says nothing about the story, so the first one's
	// title stands.
	if storyTitles["1-1"] != "Old story" {
		t.Errorf("story 1-1 = %q, want %q", storyTitles["1-1"], "Old story")
	}
}

func TestReadTitles_MissingFilesTolerated(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.md")
	present := writeFile(t, dir, "present.md", "### Epic 3: Shipping\n")

	epicTitles, _ := ReadTitles([]string{missing, present})

	if epicTitles[3] != "Shipping" {
		t.Errorf("epic 3 = %q, want %q", epicTitles[3], "Shipping")
	}
}

func TestReadTitles_IndentedLinesStillMatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "epics.md", "  ### Epic 4: Indented\n\t- 4.1 Indented story\n")

	epicTitles, storyTitles := ReadTitles([]string{path})

	if epicTitles[4] != "Indented" {
		t.Errorf("epic 4 = %q, want leading whitespace trimmed before matching", epicTitles[4])
	}
	if storyTitles["4-1"] != "Indented story" {
		t.Errorf("story 4-1 = %q, want %q", storyTitles["4-1"], "Indented story")
	}
}
