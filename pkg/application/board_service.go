// Package application assembles board snapshots from the artifact tree.
package application

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmadlabs/liveboard/pkg/domain/board"
	"github.com/bmadlabs/liveboard/pkg/storage"
)

// ArtifactLayout names the well-known directories and files inside a BMAD
// output tree.
type ArtifactLayout struct {
	ImplementationDir string
	PlanningDir       string
	SprintStatusFile  string
	EpicVisualFile    string
	EpicsFile         string
}

// DefaultLayout returns the conventional BMAD artifact layout.
func DefaultLayout() ArtifactLayout {
	return ArtifactLayout{
		ImplementationDir: "implementation-artifacts",
		PlanningDir:       "planning-artifacts",
		SprintStatusFile:  "sprint-status.yaml",
		EpicVisualFile:    "epics-stories-visualization.md",
		EpicsFile:         "epics.md",
	}
}

// BoardService builds board snapshots. Each Build re-reads every source
// file from scratch; the service holds no state between builds, so it is
// safe to share across requests.
type BoardService struct {
	workspaceRoot string
	bmadRoot      string
	layout        ArtifactLayout
	now           func() time.Time
}

// NewBoardService creates a board service over the given workspace. The
// roots are echoed into every snapshot; the layout names the files the
// build reads.
func NewBoardService(workspaceRoot, bmadRoot string, layout ArtifactLayout) *BoardService {
	return &BoardService{
		workspaceRoot: workspaceRoot,
		bmadRoot:      bmadRoot,
		layout:        layout,
		now:           time.Now,
	}
}

// Build reconstructs the board from the artifact tree under outputDir. It
// is a pure function of filesystem state: missing or malformed inputs
// degrade to defaults plus a warning, never an error. Two builds over an
// unchanged tree differ only in GeneratedAt.
func (s *BoardService) Build(outputDir string) board.Snapshot {
	implDir := filepath.Join(outputDir, s.layout.ImplementationDir)
	planningDir := filepath.Join(outputDir, s.layout.PlanningDir)
	sprintFile := filepath.Join(implDir, s.layout.SprintStatusFile)
	visualFile := filepath.Join(planningDir, s.layout.EpicVisualFile)
	epicsFile := filepath.Join(planningDir, s.layout.EpicsFile)

	statuses := storage.ReadSprintStatus(sprintFile)
	epicTitles, storyTitles := storage.ReadTitles([]string{visualFile, epicsFile})

	warnings := []string{}
	if _, err := os.Stat(outputDir); err != nil {
		warnings = append(warnings, fmt.Sprintf("Output path does not exist: %s", outputDir))
	}
	if _, err := os.Stat(sprintFile); err != nil {
		warnings = append(warnings, fmt.Sprintf("%s not found: %s", s.layout.SprintStatusFile, sprintFile))
	}

	var stories []board.Story
	epicByNumber := make(map[int]board.Epic)
	seenKeys := make(map[string]bool)

	// First pass: sprint-table entries. The table is authoritative for the
	// displayed status; the story file only contributes detail.
	for _, key := range sortedKeys(statuses) {
		value := statuses[key]

		if number, ok := board.ParseEpicKey(key); ok {
			epicByNumber[number] = board.Epic{
				Key:    key,
				Number: number,
				Title:  epicTitle(epicTitles, number),
				Status: board.Normalize(value, board.StatusBacklog),
			}
			continue
		}

		epicNumber, storyNumber, _, ok := board.ParseStoryKey(key)
		if !ok {
			continue
		}

		storyFile := filepath.Join(implDir, key+".md")
		parsed := storage.ReadStoryFile(storyFile)

		tableStatus := board.Normalize(value, board.StatusBacklog)
		mismatch := parsed.Status != nil && *parsed.Status != tableStatus
		seenKeys[key] = true

		stories = append(stories, board.Story{
			Key:              key,
			EpicNumber:       epicNumber,
			StoryNumber:      storyNumber,
			DisplayNumber:    fmt.Sprintf("%d.%d", epicNumber, storyNumber),
			Title:            storyTitle(storyTitles, epicNumber, storyNumber, parsed.Title, key),
			Status:           tableStatus,
			StatusFromSprint: statusPtr(tableStatus),
			StatusFromFile:   parsed.Status,
			StatusMismatch:   mismatch,
			FilePath:         storyFile,
			FileExists:       fileExists(storyFile),
			UpdatedAt:        isoTime(parsed.UpdatedAt),
			ChecklistDone:    parsed.ChecklistDone,
			ChecklistTotal:   parsed.ChecklistTotal,
		})
	}

	// Second pass: story files on disk that the sprint table never
	// mentions. Their own declared status is all there is, so there is
	// nothing to disagree with.
	for _, path := range storage.ListStoryFiles(implDir) {
		key := strings.TrimSuffix(filepath.Base(path), ".md")
		epicNumber, storyNumber, _, ok := board.ParseStoryKey(key)
		if !ok || seenKeys[key] {
			continue
		}

		parsed := storage.ReadStoryFile(path)
		status := board.StatusBacklog
		if parsed.Status != nil {
			status = *parsed.Status
		}

		stories = append(stories, board.Story{
			Key:              key,
			EpicNumber:       epicNumber,
			StoryNumber:      storyNumber,
			DisplayNumber:    fmt.Sprintf("%d.%d", epicNumber, storyNumber),
			Title:            storyTitle(storyTitles, epicNumber, storyNumber, parsed.Title, key),
			Status:           status,
			StatusFromSprint: nil,
			StatusFromFile:   parsed.Status,
			StatusMismatch:   false,
			FilePath:         path,
			FileExists:       true,
			UpdatedAt:        isoTime(parsed.UpdatedAt),
			ChecklistDone:    parsed.ChecklistDone,
			ChecklistTotal:   parsed.ChecklistTotal,
		})
	}

	// Epics referenced only through stories get a synthesized record.
	for _, story := range stories {
		if _, ok := epicByNumber[story.EpicNumber]; ok {
			continue
		}
		epicByNumber[story.EpicNumber] = board.Epic{
			Key:    board.EpicKey(story.EpicNumber),
			Number: story.EpicNumber,
			Title:  epicTitle(epicTitles, story.EpicNumber),
			Status: board.StatusBacklog,
		}
	}

	sort.Slice(stories, func(i, j int) bool {
		if stories[i].EpicNumber != stories[j].EpicNumber {
			return stories[i].EpicNumber < stories[j].EpicNumber
		}
		if stories[i].StoryNumber != stories[j].StoryNumber {
			return stories[i].StoryNumber < stories[j].StoryNumber
		}
		return stories[i].Key < stories[j].Key
	})

	epicNumbers := make([]int, 0, len(epicByNumber))
	for number := range epicByNumber {
		epicNumbers = append(epicNumbers, number)
	}
	sort.Ints(epicNumbers)

	epics := make([]board.EpicProgress, 0, len(epicNumbers))
	for _, number := range epicNumbers {
		epics = append(epics, board.Progress(epicByNumber[number], stories))
	}

	mismatchCount := 0
	missingFileCount := 0
	for _, story := range stories {
		if story.StatusMismatch {
			mismatchCount++
		}
		if !story.FileExists {
			missingFileCount++
		}
	}

	if stories == nil {
		stories = []board.Story{}
	}

	return board.Snapshot{
		GeneratedAt:         s.now().UTC().Format(time.RFC3339Nano),
		WorkspaceRoot:       s.workspaceRoot,
		BMADRoot:            s.bmadRoot,
		BMADOutput:          outputDir,
		SprintStatusFile:    sprintFile,
		StoryCount:          len(stories),
		EpicCount:           len(epics),
		StoriesByStatus:     board.CountByStatus(stories),
		StatusMismatchCount: mismatchCount,
		MissingFileCount:    missingFileCount,
		Warnings:            warnings,
		Epics:               epics,
		Stories:             stories,
	}
}

// storyTitle resolves the display title: planning-document title, then the
// story file's own heading, then a title derived from the key's slug.
func storyTitle(titles map[string]string, epic, story int, fileTitle, key string) string {
	if title := titles[fmt.Sprintf("%d-%d", epic, story)]; title != "" {
		return title
	}
	if fileTitle != "" {
		return fileTitle
	}
	return board.TitleFromKey(key)
}

func epicTitle(titles map[int]string, number int) string {
	if title := titles[number]; title != "" {
		return title
	}
	return board.DefaultEpicTitle(number)
}

func statusPtr(s board.Status) *board.Status {
	return &s
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isoTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	iso := t.Format(time.RFC3339Nano)
	return &iso
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
