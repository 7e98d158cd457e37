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

type ArtistHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewArtistHandler(db *sql.DB, cfg cliparse.Config) *ArtistHandler {
	return &ArtistHandler{db: db, cfg: cfg}
}

// List handles GET /api/admin/artists
// Supports pagination and an optional case-insensitive name search.
func (h *ArtistHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := middleware.ParsePagination(r)
	search := r.URL.Query().Get("search")

	var total int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM artists
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
	`, search).Scan(&total)
	if err != nil {
		slog.Error("failed to count artists", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, user_id, name, bio, country, created_at
		FROM artists
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		slog.Error("failed to query artists", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	artists := []models.Artist{}
	for rows.Next() {
		var a models.Artist
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Bio, &a.Country, &a.CreatedAt); err != nil {
			slog.Error("failed to scan artist", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		artists = append(artists, a)
	}

	middleware.JSONResponse(w, http.StatusOK, models.Page{
		Items: artists, Total: total, Page: page, PerPage: perPage,
	})
}

// Create handles POST /api/admin/artists
func (h *ArtistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertArtistRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	artist := models.Artist{
		ID:        auth.NewID(),
		UserID:    req.UserID,
		Name:      req.Name,
		Bio:       req.Bio,
		Country:   req.Country,
		CreatedAt: time.Now().UTC(),
	}

	_, err := h.db.Exec(`
		INSERT INTO artists (id, user_id, name, bio, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, artist.ID, artist.UserID, artist.Name, artist.Bio, artist.Country, artist.CreatedAt)

	if isForeignKeyViolation(err) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id does not exist")
		return
	}
	if err != nil {
		slog.Error("failed to insert artist", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create artist")
		return
	}

	slog.Info("artist created", "artist_id", artist.ID, "name", artist.Name)

	middleware.JSONResponse(w, http.StatusCreated, artist)
}

// Get handles GET /api/admin/artists/{id}
func (h *ArtistHandler) Get(w http.ResponseWriter, r *http.Request) {
	artistID := r.PathValue("id")

	var a models.Artist
	err := h.db.QueryRow(`
		SELECT id, user_id, name, bio, country, created_at
		FROM artists
		WHERE id = $1
	`, artistID).Scan(&a.ID, &a.UserID, &a.Name, &a.Bio, &a.Country, &a.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Artist not found")
		return
	}
	if err != nil {
		slog.Error("failed to query artist", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, a)
}

// Update handles PUT /api/admin/artists/{id}
func (h *ArtistHandler) Update(w http.ResponseWriter, r *http.Request) {
	artistID := r.PathValue("id")

	var req models.UpsertArtistRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	res, err := h.db.Exec(`
		UPDATE artists
		SET user_id = $1, name = $2, bio = $3, country = $4
		WHERE id = $5
	`, req.UserID, req.Name, req.Bio, req.Country, artistID)

	if isForeignKeyViolation(err) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id does not exist")
		return
	}
	if err != nil {
		slog.Error("failed to update artist", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update artist")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Artist not found")
		return
	}

	h.Get(w, r)
}

// Delete handles DELETE /api/admin/artists/{id}
// Admin only: cascades through releases, tracks, splits, and analytics.
func (h *ArtistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if middleware.Role(r) != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin role required")
		return
	}

	artistID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM artists WHERE id = $1`, artistID)
	if err != nil {
		slog.Error("failed to delete artist", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete artist")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Artist not found")
		return
	}

	slog.Info("artist deleted", "artist_id", artistID, "by", middleware.UserID(r))

	w.WriteHeader(http.StatusNoContent)
}
