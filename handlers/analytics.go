// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hardbanrecords/lab-server/cache"
	"github.com/hardbanrecords/lab-server/cliparse"
	"github.com/hardbanrecords/lab-server/middleware"
	"github.com/hardbanrecords/lab-server/models"
)

const overviewCacheKey = "overview"

type AnalyticsHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	overview *cache.Cache[models.AnalyticsOverview]
}

func NewAnalyticsHandler(db *sql.DB, cfg cliparse.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		db:       db,
		cfg:      cfg,
		overview: cache.New[models.AnalyticsOverview](cfg.CacheTTL),
	}
}

func validAnalyticsDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IngestRelease handles POST /api/admin/analytics/releases/{id}
// Upserts daily per-platform rows; re-ingesting a (date, platform) pair
// replaces the previous numbers.
func (h *AnalyticsHandler) IngestRelease(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")

	var req models.IngestReleaseAnalyticsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Rows) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "rows is required")
		return
	}

	var exists bool
	if err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM releases WHERE id = $1)`, releaseID).Scan(&exists); err != nil {
		slog.Error("failed to query release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Release not found")
		return
	}

	for i, row := range req.Rows {
		if !validAnalyticsDate(row.Date) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "rows["+row.Date+"]: date must be YYYY-MM-DD")
			return
		}
		if row.Platform == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "platform is required on every row")
			return
		}
		if row.Streams < 0 || row.Downloads < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "streams and downloads must not be negative")
			return
		}

		_, err := h.db.Exec(`
			INSERT INTO release_analytics (release_id, date, platform, streams, downloads, revenue_cents)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (release_id, date, platform)
			DO UPDATE SET streams = $4, downloads = $5, revenue_cents = $6
		`, releaseID, row.Date, row.Platform, row.Streams, row.Downloads, row.RevenueCents)
		if err != nil {
			slog.Error("failed to upsert analytics row", "error", err, "row", i)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to ingest analytics")
			return
		}
	}

	// Totals changed; drop the cached overview
	h.overview.Invalidate(overviewCacheKey)

	slog.Info("release analytics ingested", "release_id", releaseID, "rows", len(req.Rows))

	middleware.JSONResponse(w, http.StatusOK, map[string]int{"ingested": len(req.Rows)})
}

// IngestBook handles POST /api/admin/analytics/books/{id}
func (h *AnalyticsHandler) IngestBook(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

	var req models.IngestBookAnalyticsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Rows) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "rows is required")
		return
	}

	var exists bool
	if err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists); err != nil {
		slog.Error("failed to query book", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Book not found")
		return
	}

	for i, row := range req.Rows {
		if !validAnalyticsDate(row.Date) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		if row.Store == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "store is required on every row")
			return
		}
		if row.Sales < 0 || row.PagesRead < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "sales and pages_read must not be negative")
			return
		}

		_, err := h.db.Exec(`
			INSERT INTO book_analytics (book_id, date, store, sales, pages_read, revenue_cents)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (book_id, date, store)
			DO UPDATE SET sales = $4, pages_read = $5, revenue_cents = $6
		`, bookID, row.Date, row.Store, row.Sales, row.PagesRead, row.RevenueCents)
		if err != nil {
			slog.Error("failed to upsert analytics row", "error", err, "row", i)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to ingest analytics")
			return
		}
	}

	h.overview.Invalidate(overviewCacheKey)

	slog.Info("book analytics ingested", "book_id", bookID, "rows", len(req.Rows))

	middleware.JSONResponse(w, http.StatusOK, map[string]int{"ingested": len(req.Rows)})
}

// Release handles GET /api/admin/analytics/releases/{id}
// Per-platform aggregates over an optional from/to date range.
func (h *AnalyticsHandler) Release(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if from != "" && !validAnalyticsDate(from) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	if to != "" && !validAnalyticsDate(to) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}

	var exists bool
	if err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM releases WHERE id = $1)`, releaseID).Scan(&exists); err != nil {
		slog.Error("failed to query release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Release not found")
		return
	}

	rows, err := h.db.Query(`
		SELECT platform, COALESCE(SUM(streams), 0), COALESCE(SUM(downloads), 0), COALESCE(SUM(revenue_cents), 0)
		FROM release_analytics
		WHERE release_id = $1
		  AND ($2 = '' OR date >= $2::date)
		  AND ($3 = '' OR date <= $3::date)
		GROUP BY platform
		ORDER BY platform
	`, releaseID, from, to)
	if err != nil {
		slog.Error("failed to query release analytics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	resp := models.ReleaseAnalyticsResponse{
		ReleaseID: releaseID,
		From:      from,
		To:        to,
		Platforms: []models.PlatformAggregate{},
	}
	for rows.Next() {
		var p models.PlatformAggregate
		if err := rows.Scan(&p.Platform, &p.Streams, &p.Downloads, &p.RevenueCents); err != nil {
			slog.Error("failed to scan analytics aggregate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		resp.Platforms = append(resp.Platforms, p)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Overview handles GET /api/admin/analytics/overview
// Label-wide totals across both catalogs, served through the fixed-TTL
// cache. Staleness up to the TTL is acceptable for a dashboard headline.
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.overview.Get(overviewCacheKey); ok {
		middleware.JSONResponse(w, http.StatusOK, v)
		return
	}

	var o models.AnalyticsOverview
	var musicRevenue, bookRevenue int64

	err := h.db.QueryRow(`
		SELECT COALESCE(SUM(streams), 0), COALESCE(SUM(downloads), 0), COALESCE(SUM(revenue_cents), 0)
		FROM release_analytics
	`).Scan(&o.TotalStreams, &o.TotalDownloads, &musicRevenue)
	if err != nil {
		slog.Error("failed to query release totals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	err = h.db.QueryRow(`
		SELECT COALESCE(SUM(sales), 0), COALESCE(SUM(revenue_cents), 0)
		FROM book_analytics
	`).Scan(&o.TotalBookSales, &bookRevenue)
	if err != nil {
		slog.Error("failed to query book totals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	o.TotalRevenueCents = musicRevenue + bookRevenue
	o.TotalRevenue = formatCents(o.TotalRevenueCents)
	o.Streams = humanize.Comma(o.TotalStreams)
	o.CachedAt = time.Now().UTC().Format(time.RFC3339)

	h.overview.Set(overviewCacheKey, o)

	middleware.JSONResponse(w, http.StatusOK, o)
}
