package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/akyairhashvil/integrity/internal/util"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// rangeFetcher reads several A1 ranges from one spreadsheet in one call and
// returns their cells in request order.
type rangeFetcher interface {
	BatchGet(ctx context.Context, spreadsheetKey string, ranges []string) ([][][]string, error)
}

type sheetsAPI struct {
	srv *sheets.Service
}

func (a sheetsAPI) BatchGet(ctx context.Context, spreadsheetKey string, ranges []string) ([][][]string, error) {
	resp, err := a.srv.Spreadsheets.Values.BatchGet(spreadsheetKey).
		Ranges(ranges...).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(resp.ValueRanges) != len(ranges) {
		return nil, fmt.Errorf("expected %d ranges, got %d", len(ranges), len(resp.ValueRanges))
	}
	out := make([][][]string, len(resp.ValueRanges))
	for i, vr := range resp.ValueRanges {
		out[i] = cellsToStrings(vr.Values)
	}
	return out, nil
}

// SheetsSource reads each person's incident tab and rewards tab from a
// Google spreadsheet using a service account.
type SheetsSource struct {
	api            rangeFetcher
	spreadsheetKey string
	people         []string
	incidentFormat string
	rewardFormat   string
	fallback       time.Time
	now            func() time.Time
}

// NewSheetsSource authenticates with the service account file in cfg.
func NewSheetsSource(ctx context.Context, cfg *config.Config) (*SheetsSource, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.ServiceAccountFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return newSheetsSource(sheetsAPI{srv: srv}, cfg), nil
}

func newSheetsSource(api rangeFetcher, cfg *config.Config) *SheetsSource {
	return &SheetsSource{
		api:            api,
		spreadsheetKey: cfg.SpreadsheetKey,
		people:         append([]string(nil), cfg.People...),
		incidentFormat: cfg.IncidentSheetFormat,
		rewardFormat:   cfg.RewardSheetFormat,
		fallback:       cfg.FallbackDate,
		now:            time.Now,
	}
}

// Fetch issues a single batch request covering every person's two tabs.
func (s *SheetsSource) Fetch(ctx context.Context) ([]models.Snapshot, error) {
	ranges := make([]string, 0, 2*len(s.people))
	for _, person := range s.people {
		ranges = append(ranges,
			a1Range(fmt.Sprintf(s.incidentFormat, person), "A:A"),
			a1Range(fmt.Sprintf(s.rewardFormat, person), "A:B"),
		)
	}
	values, err := s.api.BatchGet(ctx, s.spreadsheetKey, ranges)
	if err != nil {
		return nil, fmt.Errorf("fetch spreadsheet %s: %w", s.spreadsheetKey, err)
	}
	if len(values) != len(ranges) {
		return nil, fmt.Errorf("fetch spreadsheet %s: expected %d ranges, got %d", s.spreadsheetKey, len(ranges), len(values))
	}

	fetchedAt := s.now()
	snapshots := make([]models.Snapshot, 0, len(s.people))
	for i, person := range s.people {
		incidents := firstColumn(dropHeader(values[2*i]))
		rewards := ParseMilestoneRows(dropHeader(values[2*i+1]))
		snapshots = append(snapshots, models.Snapshot{
			Person:       person,
			LastIncident: LatestIncident(incidents, s.fallback),
			Milestones:   rewards,
			FetchedAt:    fetchedAt,
		})
		util.Logger().Debug("fetched person",
			slog.String("person", person),
			slog.Int("incidents", len(incidents)),
			slog.Int("milestones", len(rewards)),
		)
	}
	return snapshots, nil
}

// a1Range quotes a tab title for A1 notation; embedded quotes are doubled.
func a1Range(tab, cells string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!" + cells
}
