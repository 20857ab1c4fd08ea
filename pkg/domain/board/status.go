// Package board defines the live-board domain model: the closed status
// vocabularies, epic and story records, and snapshot aggregation.
package board

import "strings"

// Status is a normalized epic or story status token.
type Status string

const (
	StatusBacklog     Status = "backlog"
	StatusReadyForDev Status = "ready-for-dev"
	StatusInProgress  Status = "in-progress"
	StatusReview      Status = "review"
	StatusDone        Status = "done"
	StatusOptional    Status = "optional"
)

// StoryStatusOrder returns the story statuses in display order. The order
// groups columns on the board; optional is a side-state, not a step after
// done.
func StoryStatusOrder() []Status {
	return []Status{
		StatusBacklog,
		StatusReadyForDev,
		StatusInProgress,
		StatusReview,
		StatusDone,
		StatusOptional,
	}
}

// EpicStatusOrder returns the epic statuses in display order.
func EpicStatusOrder() []Status {
	return []Status{
		StatusBacklog,
		StatusInProgress,
		StatusDone,
		StatusOptional,
	}
}

// IsStoryStatus returns true if the status is a valid story status.
func (s Status) IsStoryStatus() bool {
	switch s {
	case StatusBacklog, StatusReadyForDev, StatusInProgress, StatusReview, StatusDone, StatusOptional:
		return true
	default:
		return false
	}
}

// IsEpicStatus returns true if the status is a valid epic status.
func (s Status) IsEpicStatus() bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusDone, StatusOptional:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Normalize maps a raw free-text status to the closed vocabulary. Matching
// is case-insensitive and ignores surrounding whitespace; a handful of
// common synonyms are recognized. Anything unrecognized (including empty
// input) yields the fallback. Normalize is total: it never fails.
func Normalize(raw string, fallback Status) Status {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return fallback
	}

	status := Status(value)
	if status.IsStoryStatus() || status.IsEpicStatus() {
		return status
	}

	switch value {
	case "ready", "ready for dev":
		return StatusReadyForDev
	case "in progress", "doing", "wip":
		return StatusInProgress
	}

	return fallback
}
