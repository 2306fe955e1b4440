package testutil

import (
	"time"

	"github.com/akyairhashvil/integrity/internal/milestone"
	"github.com/akyairhashvil/integrity/internal/models"
)

// SnapshotBuilder provides fluent API for creating test snapshots.
type SnapshotBuilder struct {
	snapshot models.Snapshot
}

func NewSnapshot(person string) *SnapshotBuilder {
	return &SnapshotBuilder{
		snapshot: models.Snapshot{
			Person:       person,
			LastIncident: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			FetchedAt:    time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func (b *SnapshotBuilder) WithLastIncident(t time.Time) *SnapshotBuilder {
	b.snapshot.LastIncident = t
	return b
}

// WithProgress sets the last incident so that the snapshot is progress days
// into its streak on today.
func (b *SnapshotBuilder) WithProgress(today time.Time, progress int) *SnapshotBuilder {
	y, m, d := today.Date()
	b.snapshot.LastIncident = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -progress)
	return b
}

func (b *SnapshotBuilder) WithReward(threshold int, description string) *SnapshotBuilder {
	b.snapshot.Milestones = append(b.snapshot.Milestones, milestone.Milestone{Threshold: threshold, Description: description})
	return b
}

func (b *SnapshotBuilder) WithFetchedAt(t time.Time) *SnapshotBuilder {
	b.snapshot.FetchedAt = t
	return b
}

func (b *SnapshotBuilder) Build() models.Snapshot {
	s := b.snapshot
	s.Milestones = append([]milestone.Milestone(nil), b.snapshot.Milestones...)
	return s
}
