package database

import (
	"context"

	"github.com/akyairhashvil/integrity/internal/models"
)

// SnapshotRepository caches the most recent successful fetch.
type SnapshotRepository interface {
	SaveSnapshots(ctx context.Context, snapshots []models.Snapshot) error
	LoadSnapshots(ctx context.Context) ([]models.Snapshot, error)
}

// SettingsRepository stores small key/value display state.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, bool)
	SetSetting(ctx context.Context, key, value string) error
}

// Repository combines all repository interfaces.
type Repository interface {
	SnapshotRepository
	SettingsRepository
}

var _ Repository = (*Database)(nil)
