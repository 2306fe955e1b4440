package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/akyairhashvil/integrity/internal/milestone"
	"github.com/akyairhashvil/integrity/internal/models"
)

func setupTestDB(t *testing.T, ctx context.Context) *Database {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "test.db")
	db, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("db close failed: %v", err)
		}
	})
	return db
}

func sampleSnapshots(fetchedAt time.Time) []models.Snapshot {
	return []models.Snapshot{
		{
			Person:       "Michael",
			LastIncident: time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC),
			FetchedAt:    fetchedAt,
			Milestones: []milestone.Milestone{
				{Threshold: 30, Description: "Movie night"},
				{Threshold: 7, Description: "Ice cream"},
				{Threshold: 7, Description: "Ice cream again"},
			},
		},
		{
			Person:       "Aaron",
			LastIncident: time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
			FetchedAt:    fetchedAt,
		},
	}
}

func TestOpenIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.Close(); err != nil {
		t.Fatalf("db close failed: %v", err)
	}
	again, err := Open(ctx, db.Path())
	if err != nil {
		t.Fatalf("Open second run failed: %v", err)
	}
	if err := again.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestLoadSnapshotsEmpty(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	got, err := db.LoadSnapshots(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshots failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty cache, got %+v", got)
	}
}

func TestSnapshotRoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	fetchedAt := time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC)
	if err := db.SaveSnapshots(ctx, sampleSnapshots(fetchedAt)); err != nil {
		t.Fatalf("SaveSnapshots failed: %v", err)
	}

	got, err := db.LoadSnapshots(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshots failed: %v", err)
	}
	if len(got) != 2 || got[0].Person != "Michael" || got[1].Person != "Aaron" {
		t.Fatalf("expected saved person order, got %+v", got)
	}
	if !got[0].FetchedAt.Equal(fetchedAt) {
		t.Fatalf("fetched_at = %v, want %v", got[0].FetchedAt, fetchedAt)
	}
	if got[0].LastIncident.Format("2006-01-02") != "2025-02-03" {
		t.Fatalf("unexpected last incident %v", got[0].LastIncident)
	}
	ms := got[0].Milestones
	if len(ms) != 3 || ms[0].Threshold != 30 || ms[1].Description != "Ice cream" || ms[2].Description != "Ice cream again" {
		t.Fatalf("expected milestones in saved order with duplicates, got %+v", ms)
	}
	if len(got[1].Milestones) != 0 {
		t.Fatalf("expected no milestones for Aaron, got %+v", got[1].Milestones)
	}
}

func TestSaveSnapshotsReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.SaveSnapshots(ctx, sampleSnapshots(time.Now())); err != nil {
		t.Fatalf("SaveSnapshots failed: %v", err)
	}
	next := []models.Snapshot{{
		Person:       "Sam",
		LastIncident: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		FetchedAt:    time.Now(),
		Milestones:   []milestone.Milestone{{Threshold: 3, Description: "Sticker"}},
	}}
	if err := db.SaveSnapshots(ctx, next); err != nil {
		t.Fatalf("SaveSnapshots failed: %v", err)
	}
	got, err := db.LoadSnapshots(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshots failed: %v", err)
	}
	if len(got) != 1 || got[0].Person != "Sam" || len(got[0].Milestones) != 1 {
		t.Fatalf("expected only the latest fetch, got %+v", got)
	}
}

func TestSaveSnapshotsRejectsInvalidThreshold(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.SaveSnapshots(ctx, sampleSnapshots(time.Now())); err != nil {
		t.Fatalf("SaveSnapshots failed: %v", err)
	}
	bad := []models.Snapshot{{
		Person:     "Sam",
		FetchedAt:  time.Now(),
		Milestones: []milestone.Milestone{{Threshold: 0, Description: "never"}},
	}}
	err := db.SaveSnapshots(ctx, bad)
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Resource != EntitySnapshot {
		t.Fatalf("expected snapshot OpError, got %v", err)
	}
	got, err := db.LoadSnapshots(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshots failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("failed save must leave previous cache intact, got %+v", got)
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if _, ok := db.GetSetting(ctx, SettingQuoteIndex); ok {
		t.Fatalf("expected missing setting")
	}
	if err := db.SetSetting(ctx, SettingQuoteIndex, "3"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := db.SetSetting(ctx, SettingQuoteIndex, "4"); err != nil {
		t.Fatalf("SetSetting overwrite failed: %v", err)
	}
	if got, ok := db.GetSetting(ctx, SettingQuoteIndex); !ok || got != "4" {
		t.Fatalf("GetSetting = %q, %v", got, ok)
	}
	if err := db.DeleteSetting(ctx, SettingQuoteIndex); err != nil {
		t.Fatalf("DeleteSetting failed: %v", err)
	}
	if _, ok := db.GetSetting(ctx, SettingQuoteIndex); ok {
		t.Fatalf("expected setting removed")
	}
}

func TestOpErrorFormatting(t *testing.T) {
	base := errors.New("locked")
	err := wrapKeyErr(EntitySetting, "set", "quote_index", base)
	if err.Error() != "set setting quote_index: locked" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected unwrap to base error")
	}
	if wrapErr(EntitySnapshot, "list", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
	var nilErr *OpError
	if nilErr.Error() != "" {
		t.Fatalf("nil OpError should render empty")
	}
}

func TestNullableString(t *testing.T) {
	if got := nullableString(""); got.Valid {
		t.Fatalf("expected nullableString(\"\") to be invalid, got valid")
	}
	if got := nullableString("note"); !got.Valid || got.String != "note" {
		t.Fatalf("expected nullableString(\"note\") to be valid, got %+v", got)
	}
}
