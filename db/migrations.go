// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

// Migrations is the full linear schema history. Append-only.
var Migrations = []Migration{
	{Version: 1, Name: "identities", SQL: migrationIdentities},
	{Version: 2, Name: "music_catalog", SQL: migrationMusicCatalog},
	{Version: 3, Name: "publishing_catalog", SQL: migrationPublishingCatalog},
	{Version: 4, Name: "royalties", SQL: migrationRoyalties},
	{Version: 5, Name: "distribution", SQL: migrationDistribution},
	{Version: 6, Name: "analytics", SQL: migrationAnalytics},
}

const migrationIdentities = `
-- Accounts
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'staff' CHECK (role IN ('admin', 'staff', 'artist')),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Artists (music roster)
CREATE TABLE artists (
    id TEXT PRIMARY KEY,
    user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
    name TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    country TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_artists_name ON artists(name);

-- Authors (publishing roster)
CREATE TABLE authors (
    id TEXT PRIMARY KEY,
    user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
    name TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_authors_name ON authors(name);
`

const migrationMusicCatalog = `
-- Releases (single / EP / album)
CREATE TABLE releases (
    id TEXT PRIMARY KEY,
    artist_id TEXT NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT 'single' CHECK (type IN ('single', 'ep', 'album')),
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'scheduled', 'published', 'takedown')),
    upc TEXT,
    genre TEXT NOT NULL DEFAULT '',
    release_date DATE,
    cover_url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_releases_artist_id ON releases(artist_id);
CREATE INDEX idx_releases_status ON releases(status);

-- Tracks
CREATE TABLE tracks (
    id TEXT PRIMARY KEY,
    release_id TEXT NOT NULL REFERENCES releases(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    position INTEGER NOT NULL CHECK (position > 0),
    duration_seconds INTEGER NOT NULL DEFAULT 0 CHECK (duration_seconds >= 0),
    isrc TEXT,
    audio_url TEXT,
    explicit BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (release_id, position)
);

CREATE INDEX idx_tracks_release_id ON tracks(release_id);
`

const migrationPublishingCatalog = `
-- Books
CREATE TABLE books (
    id TEXT PRIMARY KEY,
    author_id TEXT NOT NULL REFERENCES authors(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    subtitle TEXT NOT NULL DEFAULT '',
    isbn TEXT,
    genre TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published', 'archived')),
    cover_url TEXT,
    published_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_books_author_id ON books(author_id);
CREATE INDEX idx_books_status ON books(status);

-- Chapters
CREATE TABLE chapters (
    id TEXT PRIMARY KEY,
    book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    position INTEGER NOT NULL CHECK (position > 0),
    body TEXT NOT NULL DEFAULT '',
    word_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (book_id, position)
);

CREATE INDEX idx_chapters_book_id ON chapters(book_id);
`

const migrationRoyalties = `
-- Royalty splits: percentage shares among collaborators on a release.
-- Per-row bounds live here; the <=100 sum invariant is enforced by handlers.
CREATE TABLE royalty_splits (
    id TEXT PRIMARY KEY,
    release_id TEXT NOT NULL REFERENCES releases(id) ON DELETE CASCADE,
    recipient_name TEXT NOT NULL,
    recipient_email TEXT NOT NULL,
    share_percent NUMERIC(5,2) NOT NULL CHECK (share_percent > 0 AND share_percent <= 100),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_royalty_splits_release_id ON royalty_splits(release_id);

-- Payouts
CREATE TABLE payouts (
    id TEXT PRIMARY KEY,
    artist_id TEXT NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
    amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
    currency TEXT NOT NULL DEFAULT 'USD',
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'processing', 'paid', 'failed')),
    period_start DATE NOT NULL,
    period_end DATE NOT NULL,
    paid_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_payouts_artist_id ON payouts(artist_id);
CREATE INDEX idx_payouts_status ON payouts(status);
`

const migrationDistribution = `
-- Music distribution channels
CREATE TABLE distribution_channels (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL DEFAULT 'music' CHECK (kind IN ('music', 'publishing')),
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive'))
);

-- Release submissions per channel (bookkeeping, no live integration)
CREATE TABLE distribution_releases (
    release_id TEXT NOT NULL REFERENCES releases(id) ON DELETE CASCADE,
    channel_id TEXT NOT NULL REFERENCES distribution_channels(id) ON DELETE CASCADE,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'delivered', 'live', 'rejected', 'takedown')),
    external_id TEXT,
    submitted_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP,
    PRIMARY KEY (release_id, channel_id)
);

CREATE INDEX idx_distribution_releases_channel ON distribution_releases(channel_id);

-- Book stores
CREATE TABLE publishing_stores (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive'))
);

-- Book submissions per store
CREATE TABLE store_publications (
    book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
    store_id TEXT NOT NULL REFERENCES publishing_stores(id) ON DELETE CASCADE,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'live', 'rejected', 'removed')),
    external_id TEXT,
    submitted_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP,
    PRIMARY KEY (book_id, store_id)
);

CREATE INDEX idx_store_publications_store ON store_publications(store_id);

-- Default storefronts
INSERT INTO distribution_channels (id, name, kind) VALUES
    ('chan-spotify', 'Spotify', 'music'),
    ('chan-apple-music', 'Apple Music', 'music'),
    ('chan-youtube-music', 'YouTube Music', 'music'),
    ('chan-tidal', 'Tidal', 'music'),
    ('chan-deezer', 'Deezer', 'music')
ON CONFLICT (name) DO NOTHING;

INSERT INTO publishing_stores (id, name) VALUES
    ('store-kindle', 'Amazon Kindle'),
    ('store-apple-books', 'Apple Books'),
    ('store-google-books', 'Google Play Books'),
    ('store-kobo', 'Kobo')
ON CONFLICT (name) DO NOTHING;
`

const migrationAnalytics = `
-- Daily per-platform release metrics
CREATE TABLE release_analytics (
    release_id TEXT NOT NULL REFERENCES releases(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    platform TEXT NOT NULL,
    streams BIGINT NOT NULL DEFAULT 0 CHECK (streams >= 0),
    downloads BIGINT NOT NULL DEFAULT 0 CHECK (downloads >= 0),
    revenue_cents BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (release_id, date, platform)
);

CREATE INDEX idx_release_analytics_date ON release_analytics(date);

-- Daily per-store book metrics
CREATE TABLE book_analytics (
    book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    store TEXT NOT NULL,
    sales BIGINT NOT NULL DEFAULT 0 CHECK (sales >= 0),
    pages_read BIGINT NOT NULL DEFAULT 0 CHECK (pages_read >= 0),
    revenue_cents BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (book_id, date, store)
);

CREATE INDEX idx_book_analytics_date ON book_analytics(date);
`
