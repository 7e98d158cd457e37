// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db holds the schema migration history and runner.

# Migration History

The schema evolves through a single linear, append-only history:

 1. identities: users, artists, authors
 2. music_catalog: releases, tracks
 3. publishing_catalog: books, chapters
 4. royalties: royalty_splits, payouts
 5. distribution: channels, stores, submission records (+ seed storefronts)
 6. analytics: release_analytics, book_analytics

Applied versions are recorded in schema_migrations. Each migration runs
inside its own transaction; the first failure stops the run and surfaces
the error.

# Usage

	if err := db.Migrate(conn); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

Safe to call on every startup - already-applied versions are skipped.

# Relationships

	users 1──* artists (SET NULL on user delete)
	users 1──* authors (SET NULL)
	artists 1──* releases 1──* tracks
	artists 1──* payouts
	authors 1──* books 1──* chapters
	releases 1──* royalty_splits
	releases *──* distribution_channels (via distribution_releases)
	books *──* publishing_stores (via store_publications)
	releases 1──* release_analytics, books 1──* book_analytics

All child foreign keys use ON DELETE CASCADE.
*/
package db
