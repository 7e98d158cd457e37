// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the HardbanRecords Lab API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, store)

The storage.Store may be nil when no object storage is configured; the
upload endpoint then responds 503.

# Endpoints

Health:

	GET /health

Authentication:

	POST /api/auth/register - Create an account (first account becomes admin)
	POST /api/auth/login    - Exchange credentials for a session token
	GET  /api/auth/me       - Current session's user

All /api/admin routes require a Bearer session token.

Music catalog:

	GET    /api/admin/artists                 - List artists (search, pagination)
	POST   /api/admin/artists                 - Create artist
	GET    /api/admin/artists/{id}            - Get artist
	PUT    /api/admin/artists/{id}            - Update artist
	DELETE /api/admin/artists/{id}            - Delete artist (admin role)
	GET    /api/admin/releases                - List releases (filters, pagination)
	POST   /api/admin/releases                - Create release
	GET    /api/admin/releases/{id}           - Get release
	PUT    /api/admin/releases/{id}           - Update release
	DELETE /api/admin/releases/{id}           - Delete release (admin role)
	POST   /api/admin/releases/{id}/publish   - Publish release
	POST   /api/admin/releases/{id}/schedule  - Schedule release
	POST   /api/admin/releases/{id}/takedown  - Take release down
	GET    /api/admin/releases/{id}/tracks    - List tracks
	POST   /api/admin/releases/{id}/tracks    - Add track
	PUT    /api/admin/tracks/{id}             - Update track
	DELETE /api/admin/tracks/{id}             - Delete track
	GET    /api/admin/tracks/{id}/analysis    - Audio analysis report

Publishing catalog:

	GET    /api/admin/authors               - List authors
	POST   /api/admin/authors               - Create author
	GET    /api/admin/authors/{id}          - Get author
	PUT    /api/admin/authors/{id}          - Update author
	DELETE /api/admin/authors/{id}          - Delete author (admin role)
	GET    /api/admin/books                 - List books
	POST   /api/admin/books                 - Create book
	GET    /api/admin/books/{id}            - Get book
	PUT    /api/admin/books/{id}            - Update book
	DELETE /api/admin/books/{id}            - Delete book (admin role)
	POST   /api/admin/books/{id}/publish    - Publish book
	POST   /api/admin/books/{id}/archive    - Archive book
	GET    /api/admin/books/{id}/chapters   - List chapters (bodies omitted)
	POST   /api/admin/books/{id}/chapters   - Add chapter
	GET    /api/admin/chapters/{id}         - Get chapter with body
	PUT    /api/admin/chapters/{id}         - Update chapter
	DELETE /api/admin/chapters/{id}         - Delete chapter

Royalties:

	GET    /api/admin/releases/{id}/splits         - List splits
	POST   /api/admin/releases/{id}/splits         - Create split (sum <= 100%)
	GET    /api/admin/releases/{id}/splits/summary - Allocated/remaining percent
	PUT    /api/admin/splits/{id}                  - Update split
	DELETE /api/admin/splits/{id}                  - Delete split
	GET    /api/admin/payouts                      - List payouts
	POST   /api/admin/payouts                      - Create payout
	GET    /api/admin/payouts/summary              - Totals by status
	GET    /api/admin/payouts/{id}                 - Get payout
	PUT    /api/admin/payouts/{id}/status          - Advance payout status
	DELETE /api/admin/payouts/{id}                 - Delete pending payout

Distribution and store publishing:

	GET  /api/admin/channels                                  - List channels
	POST /api/admin/channels                                  - Create channel
	PUT  /api/admin/channels/{id}                             - Update channel
	POST /api/admin/releases/{id}/distribute                  - Submit to channels
	GET  /api/admin/releases/{id}/distribution                - Delivery state
	PUT  /api/admin/releases/{id}/distribution/{channelID}    - Advance delivery
	GET  /api/admin/stores                                    - List book stores
	POST /api/admin/stores                                    - Create store
	PUT  /api/admin/stores/{id}                               - Update store
	POST /api/admin/books/{id}/publishing                     - Submit to stores
	GET  /api/admin/books/{id}/publishing                     - Publication state
	PUT  /api/admin/books/{id}/publishing/{storeID}           - Advance publication

Analytics and uploads:

	POST /api/admin/analytics/releases/{id} - Ingest release metrics
	GET  /api/admin/analytics/releases/{id} - Per-platform aggregates
	POST /api/admin/analytics/books/{id}    - Ingest book metrics
	GET  /api/admin/analytics/overview      - Cached label-wide overview
	POST /api/admin/uploads                 - Multipart file upload

# Handler Initialization

The router creates handler instances with dependency injection:

	authHandler := handlers.NewAuthHandler(db, cfg)
	artistHandler := handlers.NewArtistHandler(db, cfg)
	...

All handlers receive the database connection and configuration; the
upload handler additionally receives the object storage client.
*/
package router
