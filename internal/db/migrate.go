package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the run history schema. Statements are idempotent and run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		input_path  TEXT NOT NULL,
		slug        TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL DEFAULT '',
		stage       TEXT NOT NULL DEFAULT 'pending'
		            CHECK(stage IN ('pending','normalized','synthesized','assembled','deployed','indexed')),
		status      TEXT NOT NULL DEFAULT 'running'
		            CHECK(status IN ('running','succeeded','failed')),
		error       TEXT NOT NULL DEFAULT '',
		started_at  TEXT NOT NULL,
		finished_at TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_slug ON runs(slug)`,

	`CREATE TABLE IF NOT EXISTS run_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		stage       TEXT NOT NULL,
		occurred_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_run_events_run ON run_events(run_id)`,
}
