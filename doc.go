// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the HardbanRecords Lab API server.

HardbanRecords Lab is the back office for an independent music and book
publishing label: artist and author rosters, release and book catalogs,
royalty splits and payouts, storefront distribution bookkeeping, and
sales/streaming analytics.

# Starting the Server

The server requires environment variables or CLI flags for configuration.
A .env file in the working directory is loaded first, if present:

	DATABASE_URL=postgres://... go run .

Or with flags:

	go run . -p 4180 -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - SESSION_SALT (--session-salt): Secret for session token HMAC

Optional settings:

  - PORT (-p): Server port (default: 4180)
  - CACHE_TTL (--cache-ttl): Analytics overview cache TTL (default: 60s)
  - PUBLIC_BASE_URL (--base-url): Base URL used in object links
  - STORAGE_ENDPOINT, STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY,
    STORAGE_BUCKET, STORAGE_SECURE: S3-compatible object storage for
    cover art, audio masters, and manuscripts. All-or-nothing; when
    unset, upload endpoints respond 503.

On startup the server applies any pending schema migrations and refuses
to start if one fails.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (catalog, royalties, distribution, analytics)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Session auth, CORS, logging, pagination, JSON helpers
  - models: Request/response types and status enums
  - auth: Password hashing and session tokens
  - db: Versioned schema migrations
  - cache: In-memory TTL cache for analytics aggregates
  - storage: S3-compatible object storage client
*/
package main
