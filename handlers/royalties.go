// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hardbanrecords/lab-server/auth"
	"github.com/hardbanrecords/lab-server/cliparse"
	"github.com/hardbanrecords/lab-server/middleware"
	"github.com/hardbanrecords/lab-server/models"
)

type RoyaltyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRoyaltyHandler(db *sql.DB, cfg cliparse.Config) *RoyaltyHandler {
	return &RoyaltyHandler{db: db, cfg: cfg}
}

// ListSplits handles GET /api/admin/releases/{id}/splits
func (h *RoyaltyHandler) ListSplits(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")

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
		SELECT id, release_id, recipient_name, recipient_email, share_percent, created_at
		FROM royalty_splits
		WHERE release_id = $1
		ORDER BY created_at, id
	`, releaseID)
	if err != nil {
		slog.Error("failed to query splits", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	splits := []models.RoyaltySplit{}
	for rows.Next() {
		var s models.RoyaltySplit
		if err := rows.Scan(&s.ID, &s.ReleaseID, &s.RecipientName, &s.RecipientEmail,
			&s.SharePercent, &s.CreatedAt); err != nil {
			slog.Error("failed to scan split", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		splits = append(splits, s)
	}

	middleware.JSONResponse(w, http.StatusOK, splits)
}

// CreateSplit handles POST /api/admin/releases/{id}/splits
// The sum of shares on a release never exceeds 100; the check and insert
// run in one transaction so concurrent creates cannot oversubscribe.
func (h *RoyaltyHandler) CreateSplit(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")

	var req models.UpsertSplitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.RecipientName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "recipient_name is required")
		return
	}
	if !strings.Contains(req.RecipientEmail, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "valid recipient_email is required")
		return
	}
	if req.SharePercent <= 0 || req.SharePercent > 100 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "share_percent must be in (0, 100]")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Row lock on the release serializes concurrent split creates
	var lockedID string
	err = tx.QueryRow(`SELECT id FROM releases WHERE id = $1 FOR UPDATE`, releaseID).Scan(&lockedID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Release not found")
		return
	}
	if err != nil {
		slog.Error("failed to lock release", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var allocated float64
	if err := tx.QueryRow(`
		SELECT COALESCE(SUM(share_percent), 0) FROM royalty_splits WHERE release_id = $1
	`, releaseID).Scan(&allocated); err != nil {
		slog.Error("failed to sum splits", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if allocated+req.SharePercent > 100 {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Split would exceed 100% of the release")
		return
	}

	split := models.RoyaltySplit{
		ID:             auth.NewID(),
		ReleaseID:      releaseID,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		SharePercent:   req.SharePercent,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = tx.Exec(`
		INSERT INTO royalty_splits (id, release_id, recipient_name, recipient_email, share_percent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, split.ID, split.ReleaseID, split.RecipientName, split.RecipientEmail,
		split.SharePercent, split.CreatedAt)
	if err != nil {
		slog.Error("failed to insert split", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create split")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create split")
		return
	}

	slog.Info("split created", "split_id", split.ID, "release_id", releaseID,
		"share_percent", split.SharePercent)

	middleware.JSONResponse(w, http.StatusCreated, split)
}

// UpdateSplit handles PUT /api/admin/splits/{id}
// Re-checks the 100% bound excluding the row being updated.
func (h *RoyaltyHandler) UpdateSplit(w http.ResponseWriter, r *http.Request) {
	splitID := r.PathValue("id")

	var req models.UpsertSplitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.RecipientName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "recipient_name is required")
		return
	}
	if !strings.Contains(req.RecipientEmail, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "valid recipient_email is required")
		return
	}
	if req.SharePercent <= 0 || req.SharePercent > 100 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "share_percent must be in (0, 100]")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Lock the parent release, not the split row, so updates serialize
	// with concurrent creates against the same 100% bound
	var releaseID string
	err = tx.QueryRow(`
		SELECT r.id FROM releases r
		JOIN royalty_splits s ON s.release_id = r.id
		WHERE s.id = $1
		FOR UPDATE OF r
	`, splitID).Scan(&releaseID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Split not found")
		return
	}
	if err != nil {
		slog.Error("failed to query split", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var others float64
	if err := tx.QueryRow(`
		SELECT COALESCE(SUM(share_percent), 0)
		FROM royalty_splits
		WHERE release_id = $1 AND id != $2
	`, releaseID, splitID).Scan(&others); err != nil {
		slog.Error("failed to sum splits", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if others+req.SharePercent > 100 {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Split would exceed 100% of the release")
		return
	}

	_, err = tx.Exec(`
		UPDATE royalty_splits
		SET recipient_name = $1, recipient_email = $2, share_percent = $3
		WHERE id = $4
	`, req.RecipientName, req.RecipientEmail, req.SharePercent, splitID)
	if err != nil {
		slog.Error("failed to update split", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update split")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update split")
		return
	}

	var s models.RoyaltySplit
	err = h.db.QueryRow(`
		SELECT id, release_id, recipient_name, recipient_email, share_percent, created_at
		FROM royalty_splits WHERE id = $1
	`, splitID).Scan(&s.ID, &s.ReleaseID, &s.RecipientName, &s.RecipientEmail,
		&s.SharePercent, &s.CreatedAt)
	if err != nil {
		slog.Error("failed to query split", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, s)
}

// DeleteSplit handles DELETE /api/admin/splits/{id}
func (h *RoyaltyHandler) DeleteSplit(w http.ResponseWriter, r *http.Request) {
	splitID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM royalty_splits WHERE id = $1`, splitID)
	if err != nil {
		slog.Error("failed to delete split", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete split")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Split not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SplitSummary handles GET /api/admin/releases/{id}/splits/summary
func (h *RoyaltyHandler) SplitSummary(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")

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

	var summary models.SplitSummary
	summary.ReleaseID = releaseID
	err := h.db.QueryRow(`
		SELECT COALESCE(SUM(share_percent), 0), COUNT(*)
		FROM royalty_splits
		WHERE release_id = $1
	`, releaseID).Scan(&summary.Allocated, &summary.SplitCount)
	if err != nil {
		slog.Error("failed to sum splits", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	summary.Remainder = 100 - summary.Allocated

	middleware.JSONResponse(w, http.StatusOK, summary)
}
