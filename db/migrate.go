// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// A Migration is one step in the linear schema history. Versions are
// contiguous starting at 1 and never reordered or edited once shipped;
// schema changes get a new version.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrate applies every pending migration, each in its own transaction.
// A failed migration aborts with an error rather than continuing past it:
// a half-applied schema is worse than a stopped deployment.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range Migrations {
		if m.Version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d (%s): begin failed: %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec(`
			INSERT INTO schema_migrations (version, name) VALUES ($1, $2)
		`, m.Version, m.Name); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): record failed: %w", m.Version, m.Name, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d (%s): commit failed: %w", m.Version, m.Name, err)
		}

		slog.Info("migration applied", "version", m.Version, "name", m.Name)
	}

	return nil
}

// Version returns the highest applied migration version.
func Version(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}
