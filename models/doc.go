// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types and API request/response shapes
for the HardbanRecords Lab server.

# Organization

  - types.go: users, auth, status enums, shared envelopes
  - music.go: artists, releases, tracks, distribution channels
  - publishing.go: authors, books, chapters, publishing stores
  - royalty.go: splits, payouts, analytics

# Status Enums

Lifecycle states are plain string constants mirroring the database CHECK
constraints:

  - releases: draft → scheduled → published → takedown
  - books: draft → published → archived
  - payouts: pending → processing → paid | failed
  - distribution: pending → delivered → live | rejected → takedown

# Pagination

List endpoints return the Page envelope:

	{"items": [...], "total": 42, "page": 1, "per_page": 25}

# JSON Hygiene

Sensitive fields (password hashes) carry the `json:"-"` tag and never
serialize. Optional columns map to pointer fields with omitempty.
*/
package models
