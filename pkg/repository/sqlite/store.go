// Package sqlite is a single-file store for running the import pipeline
// locally, without a Postgres server.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// tsLayout is fixed width so TEXT timestamps sort chronologically.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(tsLayout) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		return time.Parse(time.RFC3339Nano, s)
	}
	return t.UTC(), nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		job_title      TEXT NOT NULL,
		company_name   TEXT NOT NULL,
		location       TEXT,
		status         TEXT NOT NULL DEFAULT 'applied',
		platform_count INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_user_created ON jobs(user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS application_platforms (
		id            TEXT PRIMARY KEY,
		job_id        TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		platform_name TEXT NOT NULL,
		from_email    TEXT NOT NULL DEFAULT '',
		subject       TEXT NOT NULL DEFAULT '',
		email_type    TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		UNIQUE (job_id, platform_name)
	)`,
	`CREATE TABLE IF NOT EXISTS pending_imports (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		platform   TEXT NOT NULL,
		job_title  TEXT,
		company    TEXT,
		location   TEXT,
		email_type TEXT NOT NULL,
		from_email TEXT NOT NULL DEFAULT '',
		subject    TEXT NOT NULL DEFAULT '',
		preview    TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'pending',
		job_id     TEXT REFERENCES jobs(id) ON DELETE SET NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pending_user_status ON pending_imports(user_id, status, created_at)`,
}

// Open opens (or creates) the database at path and ensures the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", filepath.Dir(path), err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: init schema: %w", err)
		}
	}
	return db, nil
}
