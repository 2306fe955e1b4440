package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/akyairhashvil/integrity/internal/source"
	"github.com/akyairhashvil/integrity/internal/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// --- Messages ---

// refreshTickMsg carries the poll generation it was scheduled under. Ticks
// from an older generation are dropped so only one poll chain stays alive.
type refreshTickMsg struct {
	gen int
	at  time.Time
}

type quoteTickMsg time.Time

type fetchResultMsg struct {
	id        string
	snapshots []models.Snapshot
	err       error
	at        time.Time
}

type reportResultMsg struct {
	path string
	err  error
}

func refreshTickCmd(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return refreshTickMsg{gen: gen, at: t} })
}

func quoteTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return quoteTickMsg(t) })
}

// fetchCmd runs one refresh against src, bounded by config.FetchTimeout.
func fetchCmd(ctx context.Context, src source.Source, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		id := uuid.NewString()
		log := util.Logger().With(slog.String("refresh_id", id))
		log.Debug("refresh started")

		fetchCtx, cancel := context.WithTimeout(ctx, config.FetchTimeout)
		defer cancel()
		start := now()
		snapshots, err := src.Fetch(fetchCtx)
		switch {
		case err == nil:
			log.Info("refresh finished", slog.Int("people", len(snapshots)), slog.Duration("took", now().Sub(start)))
		case source.IsStale(err):
			log.Warn("refresh served cached data", slog.Any("error", err))
		default:
			log.Error("refresh failed", slog.Any("error", err))
		}
		return fetchResultMsg{id: id, snapshots: snapshots, err: err, at: now()}
	}
}

func reportCmd(boards []models.Board, dir string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := GeneratePDFReport(boards, dir, now)
		return reportResultMsg{path: path, err: err}
	}
}
