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

type DistributionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewDistributionHandler(db *sql.DB, cfg cliparse.Config) *DistributionHandler {
	return &DistributionHandler{db: db, cfg: cfg}
}

// distTransitions lists the legal per-channel status moves.
var distTransitions = map[string][]string{
	models.DistPending:   {models.DistDelivered, models.DistRejected},
	models.DistDelivered: {models.DistLive, models.DistRejected},
	models.DistLive:      {models.DistTakedown},
}

func canTransitionDist(from, to string) bool {
	for _, t := range distTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ListChannels handles GET /api/admin/channels
func (h *DistributionHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, kind, status FROM distribution_channels ORDER BY name
	`)
	if err != nil {
		slog.Error("failed to query channels", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	channels := []models.DistributionChannel{}
	for rows.Next() {
		var c models.DistributionChannel
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind, &c.Status); err != nil {
			slog.Error("failed to scan channel", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		channels = append(channels, c)
	}

	middleware.JSONResponse(w, http.StatusOK, channels)
}

// CreateChannel handles POST /api/admin/channels
func (h *DistributionHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertChannelRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Kind == "" {
		req.Kind = models.KindMusic
	}
	if req.Kind != models.KindMusic && req.Kind != models.KindPublishing {
		middleware.ErrorResponse(w, http.StatusBadRequest, "kind must be music or publishing")
		return
	}
	if req.Status == "" {
		req.Status = models.ChannelActive
	}
	if req.Status != models.ChannelActive && req.Status != models.ChannelInactive {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be active or inactive")
		return
	}

	channel := models.DistributionChannel{
		ID:     auth.NewID(),
		Name:   req.Name,
		Kind:   req.Kind,
		Status: req.Status,
	}

	_, err := h.db.Exec(`
		INSERT INTO distribution_channels (id, name, kind, status)
		VALUES ($1, $2, $3, $4)
	`, channel.ID, channel.Name, channel.Kind, channel.Status)

	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Channel name already exists")
		return
	}
	if err != nil {
		slog.Error("failed to insert channel", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create channel")
		return
	}

	slog.Info("channel created", "channel_id", channel.ID, "name", channel.Name)

	middleware.JSONResponse(w, http.StatusCreated, channel)
}

// UpdateChannel handles PUT /api/admin/channels/{id}
// Used to rename or (de)activate a channel.
func (h *DistributionHandler) UpdateChannel(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("id")

	var req models.UpsertChannelRequest
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
		UPDATE distribution_channels SET name = $1, status = $2 WHERE id = $3
	`, req.Name, req.Status, channelID)

	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Channel name already exists")
		return
	}
	if err != nil {
		slog.Error("failed to update channel", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update channel")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Channel not found")
		return
	}

	var c models.DistributionChannel
	err = h.db.QueryRow(`
		SELECT id, name, kind, status FROM distribution_channels WHERE id = $1
	`, channelID).Scan(&c.ID, &c.Name, &c.Kind, &c.Status)
	if err != nil {
		slog.Error("failed to query channel", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// Distribute handles POST /api/admin/releases/{id}/distribute
// Creates pending submission records for the listed channels. Idempotent:
// already-submitted pairs are left untouched.
func (h *DistributionHandler) Distribute(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")

	var req models.DistributeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.ChannelIDs) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "channel_ids is required")
		return
	}

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
		middleware.ErrorResponse(w, http.StatusConflict, "Only published releases can be distributed")
		return
	}

	now := time.Now().UTC()
	submitted := 0
	for _, channelID := range req.ChannelIDs {
		var chanStatus string
		err := h.db.QueryRow(`
			SELECT status FROM distribution_channels WHERE id = $1 AND kind = $2
		`, channelID, models.KindMusic).Scan(&chanStatus)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown music channel: "+channelID)
			return
		}
		if err != nil {
			slog.Error("failed to query channel", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if chanStatus != models.ChannelActive {
			middleware.ErrorResponse(w, http.StatusConflict, "Channel is inactive: "+channelID)
			return
		}

		res, err := h.db.Exec(`
			INSERT INTO distribution_releases (release_id, channel_id, status, submitted_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (release_id, channel_id) DO NOTHING
		`, releaseID, channelID, models.DistPending, now)
		if err != nil {
			slog.Error("failed to insert distribution record", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit release")
			return
		}
		if n, _ := res.RowsAffected(); n > 0 {
			submitted++
		}
	}

	slog.Info("release distributed", "release_id", releaseID, "submitted", submitted)

	h.ListDistribution(w, r)
}

// ListDistribution handles GET /api/admin/releases/{id}/distribution
func (h *DistributionHandler) ListDistribution(w http.ResponseWriter, r *http.Request) {
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
		SELECT dr.release_id, dr.channel_id, dc.name, dr.status, dr.external_id, dr.submitted_at, dr.updated_at
		FROM distribution_releases dr
		JOIN distribution_channels dc ON dr.channel_id = dc.id
		WHERE dr.release_id = $1
		ORDER BY dc.name
	`, releaseID)
	if err != nil {
		slog.Error("failed to query distribution records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	records := []models.DistributionRelease{}
	for rows.Next() {
		var d models.DistributionRelease
		if err := rows.Scan(&d.ReleaseID, &d.ChannelID, &d.ChannelName, &d.Status,
			&d.ExternalID, &d.SubmittedAt, &d.UpdatedAt); err != nil {
			slog.Error("failed to scan distribution record", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		records = append(records, d)
	}

	middleware.JSONResponse(w, http.StatusOK, records)
}

// UpdateDistribution handles PUT /api/admin/releases/{id}/distribution/{channelID}
// Records what the storefront reported: delivered, live, rejected, takedown.
func (h *DistributionHandler) UpdateDistribution(w http.ResponseWriter, r *http.Request) {
	releaseID := r.PathValue("id")
	channelID := r.PathValue("channelID")

	var req models.UpdateDistributionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Status {
	case models.DistPending, models.DistDelivered, models.DistLive, models.DistRejected, models.DistTakedown:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be one of: pending, delivered, live, rejected, takedown")
		return
	}

	var current string
	err := h.db.QueryRow(`
		SELECT status FROM distribution_releases WHERE release_id = $1 AND channel_id = $2
	`, releaseID, channelID).Scan(&current)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Distribution record not found")
		return
	}
	if err != nil {
		slog.Error("failed to query distribution record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !canTransitionDist(current, req.Status) {
		middleware.ErrorResponse(w, http.StatusConflict, "Illegal status transition "+current+" → "+req.Status)
		return
	}

	_, err = h.db.Exec(`
		UPDATE distribution_releases
		SET status = $1, external_id = COALESCE($2, external_id), updated_at = $3
		WHERE release_id = $4 AND channel_id = $5
	`, req.Status, req.ExternalID, time.Now().UTC(), releaseID, channelID)
	if err != nil {
		slog.Error("failed to update distribution record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update distribution record")
		return
	}

	slog.Info("distribution status updated", "release_id", releaseID,
		"channel_id", channelID, "from", current, "to", req.Status)

	h.ListDistribution(w, r)
}
