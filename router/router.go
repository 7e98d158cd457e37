// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/hardbanrecords/lab-server/cliparse"
	"github.com/hardbanrecords/lab-server/handlers"
	"github.com/hardbanrecords/lab-server/middleware"
	"github.com/hardbanrecords/lab-server/storage"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, store *storage.Store) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	artistHandler := handlers.NewArtistHandler(db, cfg)
	releaseHandler := handlers.NewReleaseHandler(db, cfg)
	trackHandler := handlers.NewTrackHandler(db, cfg)
	bookHandler := handlers.NewBookHandler(db, cfg)
	chapterHandler := handlers.NewChapterHandler(db, cfg)
	royaltyHandler := handlers.NewRoyaltyHandler(db, cfg)
	payoutHandler := handlers.NewPayoutHandler(db, cfg)
	distHandler := handlers.NewDistributionHandler(db, cfg)
	pubHandler := handlers.NewPublishingHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)
	uploadHandler := handlers.NewUploadHandler(store, cfg)

	// admin wraps a handler with logging and session auth
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(cfg.SessionSalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication (public)
	mux.HandleFunc("POST /api/auth/register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("GET /api/auth/me", admin(authHandler.Me))

	// Artists
	mux.HandleFunc("GET /api/admin/artists", admin(artistHandler.List))
	mux.HandleFunc("POST /api/admin/artists", admin(artistHandler.Create))
	mux.HandleFunc("GET /api/admin/artists/{id}", admin(artistHandler.Get))
	mux.HandleFunc("PUT /api/admin/artists/{id}", admin(artistHandler.Update))
	mux.HandleFunc("DELETE /api/admin/artists/{id}", admin(artistHandler.Delete))

	// Releases
	mux.HandleFunc("GET /api/admin/releases", admin(releaseHandler.List))
	mux.HandleFunc("POST /api/admin/releases", admin(releaseHandler.Create))
	mux.HandleFunc("GET /api/admin/releases/{id}", admin(releaseHandler.Get))
	mux.HandleFunc("PUT /api/admin/releases/{id}", admin(releaseHandler.Update))
	mux.HandleFunc("DELETE /api/admin/releases/{id}", admin(releaseHandler.Delete))
	mux.HandleFunc("POST /api/admin/releases/{id}/publish", admin(releaseHandler.Publish))
	mux.HandleFunc("POST /api/admin/releases/{id}/schedule", admin(releaseHandler.Schedule))
	mux.HandleFunc("POST /api/admin/releases/{id}/takedown", admin(releaseHandler.Takedown))

	// Tracks
	mux.HandleFunc("GET /api/admin/releases/{id}/tracks", admin(trackHandler.List))
	mux.HandleFunc("POST /api/admin/releases/{id}/tracks", admin(trackHandler.Create))
	mux.HandleFunc("PUT /api/admin/tracks/{id}", admin(trackHandler.Update))
	mux.HandleFunc("DELETE /api/admin/tracks/{id}", admin(trackHandler.Delete))
	mux.HandleFunc("GET /api/admin/tracks/{id}/analysis", admin(trackHandler.Analysis))

	// Authors
	mux.HandleFunc("GET /api/admin/authors", admin(bookHandler.ListAuthors))
	mux.HandleFunc("POST /api/admin/authors", admin(bookHandler.CreateAuthor))
	mux.HandleFunc("GET /api/admin/authors/{id}", admin(bookHandler.GetAuthor))
	mux.HandleFunc("PUT /api/admin/authors/{id}", admin(bookHandler.UpdateAuthor))
	mux.HandleFunc("DELETE /api/admin/authors/{id}", admin(bookHandler.DeleteAuthor))

	// Books
	mux.HandleFunc("GET /api/admin/books", admin(bookHandler.ListBooks))
	mux.HandleFunc("POST /api/admin/books", admin(bookHandler.CreateBook))
	mux.HandleFunc("GET /api/admin/books/{id}", admin(bookHandler.GetBook))
	mux.HandleFunc("PUT /api/admin/books/{id}", admin(bookHandler.UpdateBook))
	mux.HandleFunc("DELETE /api/admin/books/{id}", admin(bookHandler.DeleteBook))
	mux.HandleFunc("POST /api/admin/books/{id}/publish", admin(bookHandler.PublishBook))
	mux.HandleFunc("POST /api/admin/books/{id}/archive", admin(bookHandler.ArchiveBook))

	// Chapters
	mux.HandleFunc("GET /api/admin/books/{id}/chapters", admin(chapterHandler.List))
	mux.HandleFunc("POST /api/admin/books/{id}/chapters", admin(chapterHandler.Create))
	mux.HandleFunc("GET /api/admin/chapters/{id}", admin(chapterHandler.Get))
	mux.HandleFunc("PUT /api/admin/chapters/{id}", admin(chapterHandler.Update))
	mux.HandleFunc("DELETE /api/admin/chapters/{id}", admin(chapterHandler.Delete))

	// Royalty splits
	mux.HandleFunc("GET /api/admin/releases/{id}/splits", admin(royaltyHandler.ListSplits))
	mux.HandleFunc("POST /api/admin/releases/{id}/splits", admin(royaltyHandler.CreateSplit))
	mux.HandleFunc("GET /api/admin/releases/{id}/splits/summary", admin(royaltyHandler.SplitSummary))
	mux.HandleFunc("PUT /api/admin/splits/{id}", admin(royaltyHandler.UpdateSplit))
	mux.HandleFunc("DELETE /api/admin/splits/{id}", admin(royaltyHandler.DeleteSplit))

	// Payouts
	mux.HandleFunc("GET /api/admin/payouts", admin(payoutHandler.List))
	mux.HandleFunc("POST /api/admin/payouts", admin(payoutHandler.Create))
	mux.HandleFunc("GET /api/admin/payouts/summary", admin(payoutHandler.Summary))
	mux.HandleFunc("GET /api/admin/payouts/{id}", admin(payoutHandler.Get))
	mux.HandleFunc("PUT /api/admin/payouts/{id}/status", admin(payoutHandler.UpdateStatus))
	mux.HandleFunc("DELETE /api/admin/payouts/{id}", admin(payoutHandler.Delete))

	// Distribution (music)
	mux.HandleFunc("GET /api/admin/channels", admin(distHandler.ListChannels))
	mux.HandleFunc("POST /api/admin/channels", admin(distHandler.CreateChannel))
	mux.HandleFunc("PUT /api/admin/channels/{id}", admin(distHandler.UpdateChannel))
	mux.HandleFunc("POST /api/admin/releases/{id}/distribute", admin(distHandler.Distribute))
	mux.HandleFunc("GET /api/admin/releases/{id}/distribution", admin(distHandler.ListDistribution))
	mux.HandleFunc("PUT /api/admin/releases/{id}/distribution/{channelID}", admin(distHandler.UpdateDistribution))

	// Publishing stores (books)
	mux.HandleFunc("GET /api/admin/stores", admin(pubHandler.ListStores))
	mux.HandleFunc("POST /api/admin/stores", admin(pubHandler.CreateStore))
	mux.HandleFunc("PUT /api/admin/stores/{id}", admin(pubHandler.UpdateStore))
	mux.HandleFunc("POST /api/admin/books/{id}/publishing", admin(pubHandler.PublishToStores))
	mux.HandleFunc("GET /api/admin/books/{id}/publishing", admin(pubHandler.ListPublications))
	mux.HandleFunc("PUT /api/admin/books/{id}/publishing/{storeID}", admin(pubHandler.UpdatePublication))

	// Analytics
	mux.HandleFunc("POST /api/admin/analytics/releases/{id}", admin(analyticsHandler.IngestRelease))
	mux.HandleFunc("GET /api/admin/analytics/releases/{id}", admin(analyticsHandler.Release))
	mux.HandleFunc("POST /api/admin/analytics/books/{id}", admin(analyticsHandler.IngestBook))
	mux.HandleFunc("GET /api/admin/analytics/overview", admin(analyticsHandler.Overview))

	// Uploads
	mux.HandleFunc("POST /api/admin/uploads", admin(uploadHandler.Upload))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("HardbanRecords Lab API v1"))
	})

	return mux
}
