package storage

import (
	"regexp"
	"strings"

	"github.com/bmadlabs/liveboard/pkg/domain/board"
)

var sprintEntryRe = regexp.MustCompile(`^\s{2}([a-z0-9-]+):\s*([a-z-]+)\s*$`)

// ReadSprintStatus parses the development_status block of a sprint status
// file into a key -> status map. Everything before the
// "development_status:" marker line is ignored; inside the block, blank
// lines and comment lines continue, a line not indented by two spaces ends
// the block, and an indented line that fails the key/value pattern is
// skipped. Values are normalized with the raw value itself as fallback, so
// an unrecognized-but-present status survives verbatim.
//
// A missing or unreadable file yields an empty map, not an error.
func ReadSprintStatus(path string) map[string]string {
	entries := make(map[string]string)

	text := readText(path)
	if text == "" {
		return entries
	}

	inBlock := false
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if !inBlock {
			if trimmed == "development_status:" {
				inBlock = true
			}
			continue
		}

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		// Dedent means we left the section.
		if !strings.HasPrefix(line, "  ") {
			break
		}

		m := sprintEntryRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key, value := m[1], m[2]
		entries[key] = string(board.Normalize(value, board.Status(value)))
	}

	return entries
}
