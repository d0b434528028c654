package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS scraped_records (
		url         TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		links       TEXT[] NOT NULL DEFAULT '{}',
		category    TEXT,
		scraped_at  TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS scrape_failures (
		url              TEXT PRIMARY KEY,
		stage            TEXT NOT NULL,
		reason           TEXT NOT NULL,
		http_status_code INTEGER NOT NULL DEFAULT 0,
		attempts         INTEGER NOT NULL DEFAULT 1,
		last_attempt     TIMESTAMPTZ NOT NULL
	);`,
}

// EnsureSchema creates the tables used by the repositories if they are missing.
func EnsureSchema(ctx context.Context, db DBTX) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
