package board

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	epicKeyRe  = regexp.MustCompile(`^epic-(\d+)$`)
	storyKeyRe = regexp.MustCompile(`^(\d+)-(\d+)-([a-z0-9-]+)$`)
)

// Epic is one top-level unit of work, identified by a small integer.
type Epic struct {
	Key    string `json:"key"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// EpicProgress is the board's output view of an epic: the epic itself plus
// story counts computed over the stories that belong to it.
type EpicProgress struct {
	Key             string `json:"key"`
	Number          int    `json:"number"`
	Title           string `json:"title"`
	Status          Status `json:"status"`
	StoryTotal      int    `json:"story_total"`
	StoryDone       int    `json:"story_done"`
	StoryInProgress int    `json:"story_in_progress"`
	StoryReview     int    `json:"story_review"`
	StoryBacklog    int    `json:"story_backlog"`
	ProgressPercent int    `json:"progress_percent"`
}

// Story is one unit of work identified by (epic number, story number),
// reconciled across the sprint table and its own markdown file. Status is
// the effective status shown on the board; StatusFromSprint and
// StatusFromFile record what each source said (nil when the source is
// silent).
type Story struct {
	Key              string  `json:"key"`
	EpicNumber       int     `json:"epic_number"`
	StoryNumber      int     `json:"story_number"`
	DisplayNumber    string  `json:"display_number"`
	Title            string  `json:"title"`
	Status           Status  `json:"status"`
	StatusFromSprint *Status `json:"status_from_sprint"`
	StatusFromFile   *Status `json:"status_from_file"`
	StatusMismatch   bool    `json:"status_mismatch"`
	FilePath         string  `json:"file_path"`
	FileExists       bool    `json:"file_exists"`
	UpdatedAt        *string `json:"updated_at"`
	ChecklistDone    int     `json:"checklist_done"`
	ChecklistTotal   int     `json:"checklist_total"`
}

// Snapshot is one complete rebuild of the board from filesystem state. It
// is never mutated after construction.
type Snapshot struct {
	GeneratedAt         string         `json:"generated_at"`
	WorkspaceRoot       string         `json:"workspace_root"`
	BMADRoot            string         `json:"bmad_root"`
	BMADOutput          string         `json:"bmad_output"`
	SprintStatusFile    string         `json:"sprint_status_file"`
	StoryCount          int            `json:"story_count"`
	EpicCount           int            `json:"epic_count"`
	StoriesByStatus     map[Status]int `json:"stories_by_status"`
	StatusMismatchCount int            `json:"status_mismatch_count"`
	MissingFileCount    int            `json:"missing_file_count"`
	Warnings            []string       `json:"warnings"`
	Epics               []EpicProgress `json:"epics"`
	Stories             []Story        `json:"stories"`
}

// EpicKey returns the sprint-table key for an epic number.
func EpicKey(number int) string {
	return fmt.Sprintf("epic-%d", number)
}

// DefaultEpicTitle returns the title used when no planning document ever
// declared one.
func DefaultEpicTitle(number int) string {
	return fmt.Sprintf("Epic %d", number)
}

// ParseEpicKey extracts the epic number from an "epic-<N>" key.
func ParseEpicKey(key string) (int, bool) {
	m := epicKeyRe.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return number, true
}

// ParseStoryKey extracts (epic number, story number, slug) from a
// "<epic>-<story>-<slug>" key.
func ParseStoryKey(key string) (epic, story int, slug string, ok bool) {
	m := storyKeyRe.FindStringSubmatch(key)
	if m == nil {
		return 0, 0, "", false
	}
	epic, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, "", false
	}
	story, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, "", false
	}
	return epic, story, m[3], true
}

// TitleFromKey derives a human-readable title from a story key's slug:
// hyphens become spaces and each word is capitalized. Keys that do not
// match the story-key shape are returned unchanged.
func TitleFromKey(key string) string {
	_, _, slug, ok := ParseStoryKey(key)
	if !ok {
		return key
	}
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// Progress computes the output view of an epic over the stories whose epic
// number matches. The percentage is the integer floor of done/total; an
// epic with no stories is 0%.
func Progress(epic Epic, stories []Story) EpicProgress {
	p := EpicProgress{
		Key:    epic.Key,
		Number: epic.Number,
		Title:  epic.Title,
		Status: epic.Status,
	}

	for _, story := range stories {
		if story.EpicNumber != epic.Number {
			continue
		}
		p.StoryTotal++
		switch story.Status {
		case StatusDone:
			p.StoryDone++
		case StatusInProgress:
			p.StoryInProgress++
		case StatusReview:
			p.StoryReview++
		case StatusBacklog, StatusReadyForDev:
			p.StoryBacklog++
		}
	}

	if p.StoryTotal > 0 {
		p.ProgressPercent = p.StoryDone * 100 / p.StoryTotal
	}

	return p
}

// CountByStatus builds the status histogram over the effective story
// statuses. All story statuses are present in the result, even at zero.
func CountByStatus(stories []Story) map[Status]int {
	counts := make(map[Status]int, len(StoryStatusOrder()))
	for _, status := range StoryStatusOrder() {
		counts[status] = 0
	}
	for _, story := range stories {
		counts[story.Status]++
	}
	return counts
}
