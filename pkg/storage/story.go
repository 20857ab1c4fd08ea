package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bmadlabs/liveboard/pkg/domain/board"
)

var (
	storyTitleRe   = regexp.MustCompile(`^# Story\s+\d+\.\d+:\s*(.+)$`)
	statusLineRe   = regexp.MustCompile(`^Status:\s*(.+)$`)
	checkboxRe     = regexp.MustCompile(`(?m)^- \[( |x|X)\]`)
	checkboxDoneRe = regexp.MustCompile(`(?m)^- \[(x|X)\]`)
)

// StoryFile is the parsed view of one per-story markdown file. Title is
// empty and Status nil when the file never declares them; both are nil/zero
// for a missing file.
type StoryFile struct {
	Title          string
	Status         *board.Status
	ChecklistDone  int
	ChecklistTotal int
	UpdatedAt      *time.Time
}

// ReadStoryFile parses a story markdown file. The first line matching the
// story heading pattern supplies the title; the first "Status: <value>"
// line supplies the status (normalized, backlog fallback); the scan stops
// once both are found. Checklist counts run over the whole text. Never
// fails: a missing or unreadable file yields the zero value.
func ReadStoryFile(path string) StoryFile {
	text := readText(path)
	if text == "" {
		return StoryFile{}
	}

	var sf StoryFile
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if sf.Title == "" {
			if m := storyTitleRe.FindStringSubmatch(line); m != nil {
				sf.Title = strings.TrimSpace(m[1])
				continue
			}
		}
		if sf.Status == nil {
			if m := statusLineRe.FindStringSubmatch(line); m != nil {
				status := board.Normalize(m[1], board.StatusBacklog)
				sf.Status = &status
			}
		}
		if sf.Title != "" && sf.Status != nil {
			break
		}
	}

	// Checkbox bullets count only at the start of a line; indented ones
	// are nested content, not checklist items.
	sf.ChecklistTotal = len(checkboxRe.FindAllString(text, -1))
	sf.ChecklistDone = len(checkboxDoneRe.FindAllString(text, -1))

	if info, err := os.Stat(path); err == nil {
		mtime := info.ModTime().UTC()
		sf.UpdatedAt = &mtime
	}

	return sf
}

// ListStoryFiles returns the markdown files directly inside dir, sorted by
// name. A missing directory yields nil.
func ListStoryFiles(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil
	}
	return matches
}
