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

type PublishingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPublishingHandler(db *sql.DB, cfg cliparse.Config) *PublishingHandler {
	return &PublishingHandler{db: db, cfg: cfg}
}

// pubTransitions lists the legal per-store status moves.
var pubTransitions = map[string][]string{
	models.PubPending: {models.PubLive, models.PubRejected},
	models.PubLive:    {models.PubRemoved},
}

func canTransitionPub(from, to string) bool {
	for _, t := range pubTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ListStores handles GET /api/admin/stores
func (h *PublishingHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, status FROM publishing_stores ORDER BY name
	`)
	if err != nil {
		slog.Error("failed to query stores", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	stores := []models.PublishingStore{}
	for rows.Next() {
		var s models.PublishingStore
		if err := rows.Scan(&s.ID, &s.Name, &s.Status); err != nil {
			slog.Error("failed to scan store", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		stores = append(stores, s)
	}

	middleware.JSONResponse(w, http.StatusOK, stores)
}

// CreateStore handles POST /api/admin/stores
func (h *PublishingHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertStoreRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Status == "" {
		req.Status = models.ChannelActive
	}
	if req.Status != models.ChannelActive && req.Status != models.ChannelInactive {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be active or inactive")
		return
	}

	store := models.PublishingStore{
		ID:     auth.NewID(),
		Name:   req.Name,
		Status: req.Status,
	}

	_, err := h.db.Exec(`
		INSERT INTO publishing_stores (id, name, status) VALUES ($1, $2, $3)
	`, store.ID, store.Name, store.Status)

	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Store name already exists")
		return
	}
	if err != nil {
		slog.Error("failed to insert store", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create store")
		return
	}

	slog.Info("store created", "store_id", store.ID, "name", store.Name)

	middleware.JSONResponse(w, http.StatusCreated, store)
}

// UpdateStore handles PUT /api/admin/stores/{id}
// Used to rename or (de)activate a store.
func (h *PublishingHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	storeID := r.PathValue("id")

	var req models.UpsertStoreRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Status != models.ChannelActive && req.Status != models.ChannelInactive {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be active or inactive")
		return
	}

	res, err := h.db.Exec(`
		UPDATE publishing_stores SET name = $1, status = $2 WHERE id = $3
	`, req.Name, req.Status, storeID)

	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Store name already exists")
		return
	}
	if err != nil {
		slog.Error("failed to update store", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update store")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Store not found")
		return
	}

	var s models.PublishingStore
	err = h.db.QueryRow(`
		SELECT id, name, status FROM publishing_stores WHERE id = $1
	`, storeID).Scan(&s.ID, &s.Name, &s.Status)
	if err != nil {
		slog.Error("failed to query store", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, s)
}

// PublishToStores handles POST /api/admin/books/{id}/publishing
// Creates pending publication records for the listed stores. Idempotent.
func (h *PublishingHandler) PublishToStores(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

	var req models.PublishToStoresRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.StoreIDs) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "store_ids is required")
		return
	}

	var status string
	err := h.db.QueryRow(`SELECT status FROM books WHERE id = $1`, bookID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		slog.Error("failed to query book", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if status != models.BookPublished {
		middleware.ErrorResponse(w, http.StatusConflict, "Only published books can be sent to stores")
		return
	}

	now := time.Now().UTC()
	for _, storeID := range req.StoreIDs {
		var storeStatus string
		err := h.db.QueryRow(`SELECT status FROM publishing_stores WHERE id = $1`, storeID).Scan(&storeStatus)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown store: "+storeID)
			return
		}
		if err != nil {
			slog.Error("failed to query store", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if storeStatus != models.ChannelActive {
			middleware.ErrorResponse(w, http.StatusConflict, "Store is inactive: "+storeID)
			return
		}

		_, err = h.db.Exec(`
			INSERT INTO store_publications (book_id, store_id, status, submitted_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (book_id, store_id) DO NOTHING
		`, bookID, storeID, models.PubPending, now)
		if err != nil {
			slog.Error("failed to insert publication record", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit book")
			return
		}
	}

	slog.Info("book sent to stores", "book_id", bookID, "stores", len(req.StoreIDs))

	h.ListPublications(w, r)
}

// ListPublications handles GET /api/admin/books/{id}/publishing
func (h *PublishingHandler) ListPublications(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

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

	rows, err := h.db.Query(`
		SELECT sp.book_id, sp.store_id, ps.name, sp.status, sp.external_id, sp.submitted_at, sp.updated_at
		FROM store_publications sp
		JOIN publishing_stores ps ON sp.store_id = ps.id
		WHERE sp.book_id = $1
		ORDER BY ps.name
	`, bookID)
	if err != nil {
		slog.Error("failed to query publication records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	records := []models.StorePublication{}
	for rows.Next() {
		var p models.StorePublication
		if err := rows.Scan(&p.BookID, &p.StoreID, &p.StoreName, &p.Status,
			&p.ExternalID, &p.SubmittedAt, &p.UpdatedAt); err != nil {
			slog.Error("failed to scan publication record", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		records = append(records, p)
	}

	middleware.JSONResponse(w, http.StatusOK, records)
}

// UpdatePublication handles PUT /api/admin/books/{id}/publishing/{storeID}
func (h *PublishingHandler) UpdatePublication(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")
	storeID := r.PathValue("storeID")

	var req models.UpdatePublicationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Status {
	case models.PubPending, models.PubLive, models.PubRejected, models.PubRemoved:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be one of: pending, live, rejected, removed")
		return
	}

	var current string
	err := h.db.QueryRow(`
		SELECT status FROM store_publications WHERE book_id = $1 AND store_id = $2
	`, bookID, storeID).Scan(&current)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Publication record not found")
		return
	}
	if err != nil {
		slog.Error("failed to query publication record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !canTransitionPub(current, req.Status) {
		middleware.ErrorResponse(w, http.StatusConflict, "Illegal status transition "+current+" → "+req.Status)
		return
	}

	_, err = h.db.Exec(`
		UPDATE store_publications
		SET status = $1, external_id = COALESCE($2, external_id), updated_at = $3
		WHERE book_id = $4 AND store_id = $5
	`, req.Status, req.ExternalID, time.Now().UTC(), bookID, storeID)
	if err != nil {
		slog.Error("failed to update publication record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update publication record")
		return
	}

	slog.Info("publication status updated", "book_id", bookID, "store_id", storeID,
		"from", current, "to", req.Status)

	h.ListPublications(w, r)
}
