// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/hardbanrecords/lab-server/auth"
	"github.com/hardbanrecords/lab-server/cliparse"
	"github.com/hardbanrecords/lab-server/middleware"
	"github.com/hardbanrecords/lab-server/models"
)

type ReleaseHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewReleaseHandler(db *sql.DB, cfg cliparse.Config) *ReleaseHandler {
	return &ReleaseHandler{db: db, cfg: cfg}
}

func validReleaseType(t string) bool {
	return t == models.TypeSingle || t == models.TypeEP || t == models.TypeAlbum
}

const releaseColumns = `id, artist_id, title, type, status, upc, genre, release_date, cover_url, created_at`

func scanRelease(row interface{ Scan(...any) error }) (models.Release, error) {
	var rel models.Release
	err := row.Scan(&rel.ID, &rel.ArtistID, &rel.Title, &rel.Type, &rel.Status,
		&rel.UPC, &rel.Genre, &rel.ReleaseDate, &rel.CoverURL, &rel.CreatedAt)
	return rel, err
}

// List handles GET /api/admin/releases
// Filters: artist_id, status. Paginated.
func (h *ReleaseHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := middleware.ParsePagination(r)
	artistID := r.URL.Query().Get("artist_id")
	status := r.URL.Query().Get("status")

	var total int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM releases
		WHERE ($1 = '' OR artist_id = $1) AND ($2 = '' OR status = $2)
	`, artistID, status).Scan(&total)
	if err != nil {
		slog.Error("failed to count releases", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT `+releaseColumns+`
		FROM releases
		WHERE ($1 = '' OR artist_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`, artistID, status, limit, offset)
	if err != nil {
		slog.Error("failed to query releases", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	releases := []models.Release{}
	for rows.Next() {
		rel, err := scanRelease(rows)
		if err != nil {
			slog.Error("failed to scan release", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		releases = append(releases, rel)
	}

	middleware.JSONResponse(w, http.StatusOK, models.Page{
		Items: releases, Total: total, Page: page, PerPage: perPage,
	})
}

// Create handles POST /api/admin/releases
func (h *ReleaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertReleaseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.ArtistID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "artist_id is required")
		return
	}
	if req.Type == "" {
		req.Type = models.TypeSingle
	}
	if !validReleaseType(req.Type) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type must be one of: single, ep, album")
		return
	}

	rel := models.Release{
		ID:          auth.NewID(),
		ArtistID:    req.ArtistID,
		Title:       req.Title,
		Type:        req.Type,
		Status:      models.ReleaseDraft,
		UPC:         req.UPC,
		Genre:       req.Genre,
		ReleaseDate: req.ReleaseDate,
		CoverURL:    req.CoverURL,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := h.db.Exec(`
		INSERT INTO releases (id, artist_id, title, type, status, upc, genre, release_date, cover_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, rel.ID, rel.ArtistID, rel.Title, rel.Type, rel.Status, rel.UPC, rel.Genre,
		rel.ReleaseDate, rel.CoverURL, rel.CreatedAt)

	if isForeignKeyViolation(err) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "artist_id does not exist")
		return
	}
	if err != nil {
		slog.Error("failed to insert release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create release")
		return
	}

	slog.Info("release created", "release_id", rel.ID, "artist_id", rel.ArtistID)

	middleware.JSONResponse(w, http.StatusCreated, rel)
}

// Get handles GET /api/admin/releases/{id}
func (h *ReleaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")

	rel, err := scanRelease(h.db.QueryRow(`
		SELECT `+releaseColumns+` FROM releases WHERE id = $1
	`, releaseID))

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Release not found")
		return
	}
	if err != nil {
		slog.Error("failed to query release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rel)
}

// Update handles PUT /api/admin/releases/{id}
// Status is not updatable here; use the publish/takedown endpoints.
func (h *ReleaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")

	var req models.UpsertReleaseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Type != "" && !validReleaseType(req.Type) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type must be one of: single, ep, album")
		return
	}

	res, err := h.db.Exec(`
		UPDATE releases
		SET title = $1, type = COALESCE(NULLIF($2, ''), type), upc = $3,
		    genre = $4, release_date = $5, cover_url = $6
		WHERE id = $7
	`, req.Title, req.Type, req.UPC, req.Genre, req.ReleaseDate, req.CoverURL, releaseID)

	if err != nil {
		slog.Error("failed to update release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update release")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Release not found")
		return
	}

	h.Get(w, r)
}

// Delete handles DELETE /api/admin/releases/{id}
func (h *ReleaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if middleware.Role(r) != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin role required")
		return
	}

	releaseID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM releases WHERE id = $1`, releaseID)
	if err != nil {
		slog.Error("failed to delete release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete release")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Release not found")
		return
	}

	slog.Info("release deleted", "release_id", releaseID, "by", middleware.UserID(r))

	w.WriteHeader(http.StatusNoContent)
}

// Publish handles POST /api/admin/releases/{id}/publish
// draft/scheduled → published. Requires at least one track.
func (h *ReleaseHandler) Publish(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")

	var status string
	var trackCount int
	err := h.db.QueryRow(`
		SELECT r.status, COUNT(t.id)
		FROM releases r
		LEFT JOIN tracks t ON r.id = t.release_id
		WHERE r.id = $1
		GROUP BY r.status
	`, releaseID).Scan(&status, &trackCount)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Release not found")
		return
	}
	if err != nil {
		slog.Error("failed to query release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.ReleaseDraft && status != models.ReleaseScheduled {
		middleware.ErrorResponse(w, http.StatusConflict, "Release is not in draft or scheduled status")
		return
	}
	if trackCount == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Release must have at least one track")
		return
	}

	_, err = h.db.Exec(`
		UPDATE releases SET status = $1 WHERE id = $2
	`, models.ReleasePublished, releaseID)
	if err != nil {
		slog.Error("failed to publish release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to publish release")
		return
	}

	slog.Info("release published", "release_id", releaseID)

	h.Get(w, r)
}

// Schedule handles POST /api/admin/releases/{id}/schedule
// draft → scheduled. Requires a release_date to schedule against.
func (h *ReleaseHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")

	var status string
	var releaseDate sql.NullTime
	err := h.db.QueryRow(`
		SELECT status, release_date FROM releases WHERE id = $1
	`, releaseID).Scan(&status, &releaseDate)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Release not found")
		return
	}
	if err != nil {
		slog.Error("failed to query release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.ReleaseDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Release is not in draft status")
		return
	}
	if !releaseDate.Valid {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Release needs a release_date before it can be scheduled")
		return
	}

	_, err = h.db.Exec(`
		UPDATE releases SET status = $1 WHERE id = $2
	`, models.ReleaseScheduled, releaseID)
	if err != nil {
		slog.Error("failed to schedule release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to schedule release")
		return
	}

	slog.Info("release scheduled", "release_id", releaseID, "release_date", releaseDate.Time)

	h.Get(w, r)
}

// Takedown handles POST /api/admin/releases/{id}/takedown
// published → takedown. The catalog record stays; distribution records keep
// their own per-channel takedown state.
func (h *ReleaseHandler) Takedown(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")

	var status string
	err := h.db.QueryRow(`SELECT status FROM releases WHERE id = $1`, releaseID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Release not found")
		return
	}
	if err != nil {
		slog.Error("failed to query release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.ReleasePublished {
		middleware.ErrorResponse(w, http.StatusConflict, "Only published releases can be taken down")
		return
	}

	_, err = h.db.Exec(`
		UPDATE releases SET status = $1 WHERE id = $2
	`, models.ReleaseTakedown, releaseID)
	if err != nil {
		slog.Error("failed to take down release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to take down release")
		return
	}

	slog.Info("release taken down", "release_id", releaseID)

	h.Get(w, r)
}
