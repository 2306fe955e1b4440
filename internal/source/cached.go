package source

import (
	"context"
	"log/slog"

	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/akyairhashvil/integrity/internal/util"
)

// SnapshotStore persists the last good fetch. LoadSnapshots returns no
// snapshots and no error when nothing has been saved yet.
type SnapshotStore interface {
	SaveSnapshots(ctx context.Context, snapshots []models.Snapshot) error
	LoadSnapshots(ctx context.Context) ([]models.Snapshot, error)
}

// CachedSource remembers the last successful fetch so the board survives a
// restart while the network is down.
type CachedSource struct {
	next  Source
	store SnapshotStore
}

func NewCachedSource(next Source, store SnapshotStore) *CachedSource {
	return &CachedSource{next: next, store: store}
}

// Fetch returns fresh snapshots when possible. On failure it falls back to
// the cache and returns the cached snapshots together with a *StaleError.
func (c *CachedSource) Fetch(ctx context.Context) ([]models.Snapshot, error) {
	snapshots, err := c.next.Fetch(ctx)
	if err == nil {
		if saveErr := c.store.SaveSnapshots(ctx, snapshots); saveErr != nil {
			util.LogError("cache snapshots", saveErr)
		}
		return snapshots, nil
	}

	cached, loadErr := c.store.LoadSnapshots(ctx)
	util.LogError("load cached snapshots", loadErr)
	if len(cached) == 0 {
		return nil, err
	}
	since := cached[0].FetchedAt
	for _, s := range cached[1:] {
		if s.FetchedAt.Before(since) {
			since = s.FetchedAt
		}
	}
	util.Logger().Warn("serving cached snapshots", slog.Time("since", since), slog.Any("error", err))
	return cached, &StaleError{Since: since, Err: err}
}
