// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles server configuration from CLI flags and environment
variables. Flags win over environment variables; defaults apply last.

# Required Settings

  - DATABASE_URL (-d): PostgreSQL connection string
  - SESSION_SALT (--session-salt): secret for session token HMAC

# Optional Settings

  - PORT (-p): server port (default 4180)
  - PUBLIC_BASE_URL (--base-url): base URL used when building links
  - ANALYTICS_CACHE_TTL (--cache-ttl): analytics cache TTL (default 60s)

# Object Storage

Upload endpoints need an S3-compatible bucket. All-or-nothing: when
STORAGE_ENDPOINT is set, STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY, and
STORAGE_BUCKET must be set too (STORAGE_SECURE=false disables TLS for
local development). When unset, upload endpoints return 503 and the rest
of the API works normally.
*/
package cliparse
