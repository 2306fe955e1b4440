package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Database wraps the sqlite connection that caches the last good fetch.
type Database struct {
	DB      *sql.DB
	dbFile  string
	timeout time.Duration
}

// Open opens (creating if needed) the cache database at path and applies
// the schema.
func Open(ctx context.Context, path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, wrapErr(EntityDatabase, "mkdir", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, wrapErr(EntityDatabase, "open", err)
	}
	db.SetMaxOpenConns(1)
	d := &Database{DB: db, dbFile: path, timeout: defaultQueryTimeout}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrapErr(EntityDatabase, "ping", err)
	}
	if err := d.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the connection.
func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// Path returns the file backing the database.
func (d *Database) Path() string {
	return d.dbFile
}

func (d *Database) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			person TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			last_incident TEXT NOT NULL,
			fetched_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS milestones (
			person TEXT NOT NULL,
			position INTEGER NOT NULL,
			threshold INTEGER NOT NULL CHECK (threshold > 0),
			description TEXT NOT NULL,
			PRIMARY KEY (person, position),
			FOREIGN KEY(person) REFERENCES snapshots(person) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
	}
	for _, query := range queries {
		if _, err := d.DB.ExecContext(ctx, query); err != nil {
			return wrapErr(EntityDatabase, fmt.Sprintf("create table %q", firstLine(query)), err)
		}
	}
	return nil
}

func firstLine(query string) string {
	for i, r := range query {
		if r == '\n' {
			return query[:i]
		}
	}
	return query
}
