package organizer

import (
	"time"

	"comicrenamer/internal/identification"
)

// EntryState tracks one entry through a batch. Entries move
// pending → resolved → renamed, pending → unresolved → skipped, or
// pending → error → skipped.
type EntryState string

const (
	StatePending    EntryState = "pending"
	StateResolved   EntryState = "resolved"
	StateRenamed    EntryState = "renamed"
	StateUnresolved EntryState = "unresolved"
	StateError      EntryState = "error"
	StateSkipped    EntryState = "skipped"
)

// EntryResult records what happened to one entry. State is terminal
// (renamed or skipped) and Cause is the state that led to it.
type EntryResult struct {
	Name    string
	Path    string
	NewName string
	NewPath string
	State   EntryState
	Cause   EntryState
	// Unchanged is set when the formatted name equals the current one.
	Unchanged bool
	// Planned is set for dry runs; nothing was moved.
	Planned bool
	Fields  identification.ResolvedFields
	Err     error
}

// Summary aggregates the outcome of a batch run.
type Summary struct {
	RunID      string
	Dir        string
	DryRun     bool
	Cancelled  bool
	Total      int
	Processed  int
	Renamed    int
	Unchanged  int
	Planned    int
	Unresolved int
	Failed     int
	Entries    []EntryResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// Skipped returns the number of entries left under their original name
// because they could not be resolved or failed.
func (s Summary) Skipped() int {
	return s.Unresolved + s.Failed
}

// Duration returns the wall time of the run.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() || s.StartedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s *Summary) add(result EntryResult) {
	s.Processed++
	s.Entries = append(s.Entries, result)
	switch {
	case result.State == StateRenamed && result.Unchanged:
		s.Unchanged++
	case result.State == StateRenamed && result.Planned:
		s.Planned++
	case result.State == StateRenamed:
		s.Renamed++
	case result.Cause == StateUnresolved:
		s.Unresolved++
	default:
		s.Failed++
	}
}
