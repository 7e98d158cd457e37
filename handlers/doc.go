// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the HardbanRecords Lab API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: account registration, login, session introspection
  - ArtistHandler: music roster CRUD
  - ReleaseHandler: release lifecycle (create, update, schedule, publish, takedown)
  - TrackHandler: tracks nested under releases, plus the analysis stub
  - BookHandler: authors and books (create, update, publish, archive)
  - ChapterHandler: chapters nested under books
  - RoyaltyHandler: royalty splits and the 100% allocation invariant
  - PayoutHandler: payout records, status transitions, summary
  - DistributionHandler: music channels and per-channel submission records
  - PublishingHandler: book stores and per-store publication records
  - AnalyticsHandler: daily metric ingest, aggregates, cached overview
  - UploadHandler: multipart uploads to object storage

Handlers are created via constructor functions that accept *sql.DB and Config:

	artistHandler := handlers.NewArtistHandler(db, cfg)

# Catalog Lifecycles

Releases: draft → scheduled → published → takedown. Publishing requires at
least one track; only published releases can be submitted to channels.

Books: draft → published → archived. Publishing requires at least one
chapter; only published books can be sent to stores.

# Royalty Splits

The sum of share_percent across a release never exceeds 100. Creates take a
row lock on the release so concurrent inserts cannot oversubscribe; updates
re-check the bound excluding the row being changed.

# Distribution Records

Submission records are bookkeeping only - there is no storefront
integration. Status moves mirror what an operator learns from the
storefront dashboard and are validated against a transition table.

# Error Mapping

Postgres constraint failures map to HTTP statuses: unique violations to
409, foreign key violations to 400 or 404 depending on whether the missing
row came from the path or the body, and the split bound to 422.
*/
package handlers
