package database

import (
	"context"
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/milestone"
	"github.com/akyairhashvil/integrity/internal/models"
)

// SaveSnapshots replaces the cached snapshots with the given set in a single
// transaction. Previous rows are dropped, so only the latest fetch is kept.
func (d *Database) SaveSnapshots(ctx context.Context, snapshots []models.Snapshot) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		tx, err := d.DB.BeginTx(ctx, nil)
		if err != nil {
			return wrapErr(EntitySnapshot, "begin", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM milestones"); err != nil {
			return wrapErr(EntitySnapshot, "clear milestones", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots"); err != nil {
			return wrapErr(EntitySnapshot, "clear", err)
		}

		snapStmt, err := tx.PrepareContext(ctx, "INSERT INTO snapshots (person, position, last_incident, fetched_at) VALUES (?, ?, ?, ?)")
		if err != nil {
			return wrapErr(EntitySnapshot, "prepare", err)
		}
		defer snapStmt.Close()
		msStmt, err := tx.PrepareContext(ctx, "INSERT INTO milestones (person, position, threshold, description) VALUES (?, ?, ?, ?)")
		if err != nil {
			return wrapErr(EntitySnapshot, "prepare milestones", err)
		}
		defer msStmt.Close()

		for i, s := range snapshots {
			if _, err := snapStmt.ExecContext(ctx, s.Person, i, s.LastIncident.Format(config.DateLayout), s.FetchedAt); err != nil {
				return wrapKeyErr(EntitySnapshot, "insert", s.Person, err)
			}
			for j, m := range s.Milestones {
				if _, err := msStmt.ExecContext(ctx, s.Person, j, m.Threshold, m.Description); err != nil {
					return wrapKeyErr(EntitySnapshot, "insert milestone", s.Person, err)
				}
			}
		}
		return wrapErr(EntitySnapshot, "commit", tx.Commit())
	})
}

// LoadSnapshots returns the cached snapshots in the order they were saved.
// An empty cache yields no snapshots and no error.
func (d *Database) LoadSnapshots(ctx context.Context) ([]models.Snapshot, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) ([]models.Snapshot, error) {
		rows, err := d.DB.QueryContext(ctx, "SELECT person, last_incident, fetched_at FROM snapshots ORDER BY position ASC")
		if err != nil {
			return nil, wrapErr(EntitySnapshot, "list", err)
		}
		defer rows.Close()

		var snapshots []models.Snapshot
		index := make(map[string]int)
		for rows.Next() {
			var (
				s        models.Snapshot
				incident string
			)
			if err := rows.Scan(&s.Person, &incident, &s.FetchedAt); err != nil {
				return nil, wrapErr(EntitySnapshot, "scan", err)
			}
			if s.LastIncident, err = time.Parse(config.DateLayout, incident); err != nil {
				return nil, wrapKeyErr(EntitySnapshot, "parse incident", s.Person, err)
			}
			index[s.Person] = len(snapshots)
			snapshots = append(snapshots, s)
		}
		if err := rows.Err(); err != nil {
			return nil, wrapErr(EntitySnapshot, "list", err)
		}

		msRows, err := d.DB.QueryContext(ctx, "SELECT person, threshold, description FROM milestones ORDER BY person, position ASC")
		if err != nil {
			return nil, wrapErr(EntitySnapshot, "list milestones", err)
		}
		defer msRows.Close()
		for msRows.Next() {
			var (
				person string
				m      milestone.Milestone
			)
			if err := msRows.Scan(&person, &m.Threshold, &m.Description); err != nil {
				return nil, wrapErr(EntitySnapshot, "scan milestone", err)
			}
			if i, ok := index[person]; ok {
				snapshots[i].Milestones = append(snapshots[i].Milestones, m)
			}
		}
		if err := msRows.Err(); err != nil {
			return nil, wrapErr(EntitySnapshot, "list milestones", err)
		}
		return snapshots, nil
	})
}
