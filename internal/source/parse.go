package source

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/milestone"
	"github.com/akyairhashvil/integrity/internal/util"
)

// ParseMilestoneRows converts (threshold, description) rows into milestones.
// Rows that are short, blank, non-numeric or non-positive are dropped; source
// order and duplicate thresholds are kept.
func ParseMilestoneRows(rows [][]string) []milestone.Milestone {
	out := make([]milestone.Milestone, 0, len(rows))
	for i, row := range rows {
		m, ok := parseMilestoneRow(row)
		if !ok {
			util.Logger().Debug("skipping milestone row", slog.Int("row", i), slog.Any("cells", row))
			continue
		}
		out = append(out, m)
	}
	return out
}

func parseMilestoneRow(row []string) (milestone.Milestone, bool) {
	if len(row) < 2 {
		return milestone.Milestone{}, false
	}
	rawThreshold := strings.TrimSpace(row[0])
	description := strings.TrimSpace(row[1])
	if rawThreshold == "" || description == "" {
		return milestone.Milestone{}, false
	}
	threshold, err := strconv.Atoi(rawThreshold)
	if err != nil || threshold <= 0 {
		return milestone.Milestone{}, false
	}
	return milestone.Milestone{Threshold: threshold, Description: description}, true
}

// LatestIncident returns the most recent YYYY-MM-DD date in values, or
// fallback when none parse.
func LatestIncident(values []string, fallback time.Time) time.Time {
	var (
		latest time.Time
		found  bool
	)
	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		d, err := time.Parse(config.DateLayout, raw)
		if err != nil {
			util.Logger().Debug("skipping incident row", slog.String("value", raw))
			continue
		}
		if !found || d.After(latest) {
			latest, found = d, true
		}
	}
	if !found {
		return fallback
	}
	return latest
}

// dropHeader removes the first row, which sheets use for column titles.
func dropHeader[T any](rows []T) []T {
	if len(rows) == 0 {
		return rows
	}
	return rows[1:]
}

func cellsToStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		out[i] = cells
	}
	return out
}

func firstColumn(rows [][]string) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		out = append(out, row[0])
	}
	return out
}
