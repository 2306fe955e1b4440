// Package source fetches incident dates and milestone definitions for the
// tracked people and turns raw rows into clean milestone sets.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/models"
)

// Source supplies a fresh snapshot per configured person, in configured order.
//
//go:generate mockgen -source=source.go -destination=sourcemock/mock_source.go -package=sourcemock
type Source interface {
	Fetch(ctx context.Context) ([]models.Snapshot, error)
}

// StaleError accompanies snapshots served from the cache after a failed fetch.
type StaleError struct {
	Since time.Time
	Err   error
}

func (e *StaleError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("showing data from %s: %v", e.Since.Format("2006-01-02 15:04"), e.Err)
}

func (e *StaleError) Unwrap() error { return e.Err }

// IsStale reports whether err only signals that cached data was served.
func IsStale(err error) bool {
	var stale *StaleError
	return errors.As(err, &stale)
}

// New builds the source selected by cfg.Source.
func New(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.Source {
	case models.SourceSheets:
		s, err := NewSheetsSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case models.SourceFile:
		return NewFileSource(cfg), nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}
