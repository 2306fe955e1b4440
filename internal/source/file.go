package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/akyairhashvil/integrity/internal/util"
	"gopkg.in/yaml.v3"
)

type boardFile struct {
	People []personEntry `yaml:"people"`
}

type personEntry struct {
	Name      string        `yaml:"name"`
	Incidents []string      `yaml:"incidents"`
	Rewards   []rewardEntry `yaml:"rewards"`
}

type rewardEntry struct {
	Threshold   string `yaml:"threshold"`
	Description string `yaml:"description"`
}

// FileSource reads the same data as the spreadsheet from a local YAML file.
// It is re-read on every fetch so edits show up on the next refresh.
type FileSource struct {
	path     string
	people   []string
	fallback time.Time
	now      func() time.Time
}

func NewFileSource(cfg *config.Config) *FileSource {
	return &FileSource{
		path:     cfg.DataFile,
		people:   append([]string(nil), cfg.People...),
		fallback: cfg.FallbackDate,
		now:      time.Now,
	}
}

func (s *FileSource) Fetch(ctx context.Context) ([]models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	var doc boardFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", s.path, err)
	}

	byName := make(map[string]personEntry, len(doc.People))
	for _, p := range doc.People {
		byName[strings.ToLower(strings.TrimSpace(p.Name))] = p
	}

	fetchedAt := s.now()
	snapshots := make([]models.Snapshot, 0, len(s.people))
	for _, person := range s.people {
		entry, ok := byName[strings.ToLower(person)]
		if !ok {
			util.Logger().Warn("person missing from data file", slog.String("person", person), slog.String("path", s.path))
		}
		rows := make([][]string, 0, len(entry.Rewards))
		for _, r := range entry.Rewards {
			rows = append(rows, []string{r.Threshold, r.Description})
		}
		snapshots = append(snapshots, models.Snapshot{
			Person:       person,
			LastIncident: LatestIncident(entry.Incidents, s.fallback),
			Milestones:   ParseMilestoneRows(rows),
			FetchedAt:    fetchedAt,
		})
	}
	return snapshots, nil
}
