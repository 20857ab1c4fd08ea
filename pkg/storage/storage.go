// Package storage reads the BMAD artifact tree: the sprint status table,
// the planning documents, and per-story markdown files. Every reader here
// is total — a missing or unreadable file degrades to an empty result, and
// a malformed line is skipped. The board is rebuilt from these files on
// every request, so nothing is cached.
package storage

import "os"

// readText returns the file's content, or the empty string if the file is
// absent or unreadable.
func readText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
