package storage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	epicTitleRe = regexp.MustCompile(`^### Epic\s+(\d+):\s*(.+)$`)
	storyLineRe = regexp.MustCompile(`^-\s+(\d+)\.(\d+)\s+(.+)$`)
)

// ReadTitles scans planning documents for epic headings
// ("### Epic <N>: <title>") and story bullets ("- <N>.<M> <title>"). It
// returns epic titles keyed by epic number and story titles keyed by
// "<epic>-<story>". Later matches overwrite earlier ones, so callers list
// the highest-precedence document last. Missing files contribute nothing.
func ReadTitles(paths []string) (map[int]string, map[string]string) {
	epicTitles := make(map[int]string)
	storyTitles := make(map[string]string)

	for _, path := range paths {
		text := readText(path)
		if text == "" {
			continue
		}

		for _, raw := range strings.Split(text, "\n") {
			line := strings.TrimSpace(raw)

			if m := epicTitleRe.FindStringSubmatch(line); m != nil {
				number, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				epicTitles[number] = strings.TrimSpace(m[2])
				continue
			}

			if m := storyLineRe.FindStringSubmatch(line); m != nil {
				epic, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				story, err := strconv.Atoi(m[2])
				if err != nil {
					continue
				}
				storyTitles[fmt.Sprintf("%d-%d", epic, story)] = strings.TrimSpace(m[3])
			}
		}
	}

	return epicTitles, storyTitles
}
