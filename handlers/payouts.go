// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hardbanrecords/lab-server/auth"
	"github.com/hardbanrecords/lab-server/cliparse"
	"github.com/hardbanrecords/lab-server/middleware"
	"github.com/hardbanrecords/lab-server/models"
)

type PayoutHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPayoutHandler(db *sql.DB, cfg cliparse.Config) *PayoutHandler {
	return &PayoutHandler{db: db, cfg: cfg}
}

// payoutTransitions lists the legal status moves.
var payoutTransitions = map[string][]string{
	models.PayoutPending:    {models.PayoutProcessing},
	models.PayoutProcessing: {models.PayoutPaid, models.PayoutFailed},
}

func canTransitionPayout(from, to string) bool {
	for _, t := range payoutTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

const payoutColumns = `id, artist_id, amount_cents, currency, status, period_start, period_end, paid_at, created_at`

func scanPayout(row interface{ Scan(...any) error }) (models.Payout, error) {
	var p models.Payout
	err := row.Scan(&p.ID, &p.ArtistID, &p.AmountCents, &p.Currency, &p.Status,
		&p.PeriodStart, &p.PeriodEnd, &p.PaidAt, &p.CreatedAt)
	return p, err
}

// List handles GET /api/admin/payouts
// Filters: artist_id, status. Paginated.
func (h *PayoutHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := middleware.ParsePagination(r)
	artistID := r.URL.Query().Get("artist_id")
	status := r.URL.Query().Get("status")

	var total int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM payouts
		WHERE ($1 = '' OR artist_id = $1) AND ($2 = '' OR status = $2)
	`, artistID, status).Scan(&total)
	if err != nil {
		slog.Error("failed to count payouts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT `+payoutColumns+`
		FROM payouts
		WHERE ($1 = '' OR artist_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`, artistID, status, limit, offset)
	if err != nil {
		slog.Error("failed to query payouts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	payouts := []models.Payout{}
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			slog.Error("failed to scan payout", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		payouts = append(payouts, p)
	}

	middleware.JSONResponse(w, http.StatusOK, models.Page{
		Items: payouts, Total: total, Page: page, PerPage: perPage,
	})
}

// Create handles POST /api/admin/payouts
func (h *PayoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertPayoutRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ArtistID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "artist_id is required")
		return
	}
	if req.AmountCents < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "amount_cents must not be negative")
		return
	}
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() || req.PeriodEnd.Before(req.PeriodStart) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "period_start and period_end must form a valid range")
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	payout := models.Payout{
		ID:          auth.NewID(),
		ArtistID:    req.ArtistID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Status:      models.PayoutPending,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := h.db.Exec(`
		INSERT INTO payouts (id, artist_id, amount_cents, currency, status, period_start, period_end, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, payout.ID, payout.ArtistID, payout.AmountCents, payout.Currency,
		payout.Status, payout.PeriodStart, payout.PeriodEnd, payout.CreatedAt)

	if isForeignKeyViolation(err) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "artist_id does not exist")
		return
	}
	if err != nil {
		slog.Error("failed to insert payout", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create payout")
		return
	}

	slog.Info("payout created", "payout_id", payout.ID, "artist_id", payout.ArtistID,
		"amount_cents", payout.AmountCents)

	middleware.JSONResponse(w, http.StatusCreated, payout)
}

// Get handles GET /api/admin/payouts/{id}
func (h *PayoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	payoutID := r.PathValue("id")

	p, err := scanPayout(h.db.QueryRow(`
		SELECT `+payoutColumns+` FROM payouts WHERE id = $1
	`, payoutID))

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Payout not found")
		return
	}
	if err != nil {
		slog.Error("failed to query payout", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

// UpdateStatus handles PUT /api/admin/payouts/{id}/status
// Only pending → processing → paid|failed moves are legal; paid_at is
// stamped when a payout lands in paid.
func (h *PayoutHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	payoutID := r.PathValue("id")

	var req models.UpdatePayoutStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Status {
	case models.PayoutPending, models.PayoutProcessing, models.PayoutPaid, models.PayoutFailed:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be one of: pending, processing, paid, failed")
		return
	}

	var current string
	err := h.db.QueryRow(`SELECT status FROM payouts WHERE id = $1`, payoutID).Scan(&current)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Payout not found")
		return
	}
	if err != nil {
		slog.Error("failed to query payout", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !canTransitionPayout(current, req.Status) {
		middleware.ErrorResponse(w, http.StatusConflict, "Illegal status transition "+current+" → "+req.Status)
		return
	}

	var paidAt *time.Time
	if req.Status == models.PayoutPaid {
		now := time.Now().UTC()
		paidAt = &now
	}

	// Guard on the status we read so a concurrent transition loses cleanly
	res, err := h.db.Exec(`
		UPDATE payouts SET status = $1, paid_at = COALESCE($2, paid_at)
		WHERE id = $3 AND status = $4
	`, req.Status, paidAt, payoutID, current)
	if err != nil {
		slog.Error("failed to update payout status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update payout")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Payout status changed concurrently")
		return
	}

	slog.Info("payout status updated", "payout_id", payoutID, "from", current, "to", req.Status)

	h.Get(w, r)
}

// Delete handles DELETE /api/admin/payouts/{id}
// Only pending payouts may be deleted.
func (h *PayoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	payoutID := r.PathValue("id")

	var current string
	err := h.db.QueryRow(`SELECT status FROM payouts WHERE id = $1`, payoutID).Scan(&current)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Payout not found")
		return
	}
	if err != nil {
		slog.Error("failed to query payout", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if current != models.PayoutPending {
		middleware.ErrorResponse(w, http.StatusConflict, "Only pending payouts can be deleted")
		return
	}

	if _, err := h.db.Exec(`DELETE FROM payouts WHERE id = $1`, payoutID); err != nil {
		slog.Error("failed to delete payout", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete payout")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /api/admin/payouts/summary
// Totals per status plus a grand total, with human-readable amounts.
func (h *PayoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT status, COUNT(*), COALESCE(SUM(amount_cents), 0)
		FROM payouts
		GROUP BY status
		ORDER BY status
	`)
	if err != nil {
		slog.Error("failed to query payout summary", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	summary := models.PayoutSummary{Totals: []models.PayoutStatusTotal{}}
	for rows.Next() {
		var t models.PayoutStatusTotal
		if err := rows.Scan(&t.Status, &t.Count, &t.AmountCents); err != nil {
			slog.Error("failed to scan payout summary", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		t.Amount = formatCents(t.AmountCents)
		summary.GrandCents += t.AmountCents
		summary.Totals = append(summary.Totals, t)
	}
	summary.GrandTotal = formatCents(summary.GrandCents)

	middleware.JSONResponse(w, http.StatusOK, summary)
}

func formatCents(cents int64) string {
	return humanize.CommafWithDigits(float64(cents)/100, 2)
}
