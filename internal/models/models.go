package models

import (
	"time"

	"github.com/akyairhashvil/integrity/internal/milestone"
)

// SourceKind enumerates the supported data sources.
type SourceKind string

const (
	SourceSheets SourceKind = "sheets"
	SourceFile   SourceKind = "file"
)

// Snapshot is everything fetched for one tracked person in a refresh cycle.
// It is replaced wholesale on the next successful fetch.
type Snapshot struct {
	Person       string
	LastIncident time.Time
	Milestones   []milestone.Milestone
	FetchedAt    time.Time
}

// Progress returns the whole days between the last incident and today.
// An incident dated in the future counts as zero.
func (s Snapshot) Progress(today time.Time) int {
	return DaysSince(today, s.LastIncident)
}

// Board is the evaluated state of one person, ready to render.
type Board struct {
	Person       string
	LastIncident time.Time
	Progress     int
	Result       milestone.Result
}

// Evaluate builds a fresh evaluator for s and runs it against today.
func Evaluate(s Snapshot, today time.Time, opts ...milestone.Option) Board {
	progress := s.Progress(today)
	return Board{
		Person:       s.Person,
		LastIncident: s.LastIncident,
		Progress:     progress,
		Result:       milestone.NewEvaluator(s.Milestones, opts...).Evaluate(progress),
	}
}

// DaysSince counts calendar days from last to today, ignoring time of day.
func DaysSince(today, last time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	l := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	// Whole-day Unix arithmetic; a Duration saturates after about 292 years.
	days := int((t.Unix() - l.Unix()) / 86400)
	if days < 0 {
		return 0
	}
	return days
}
