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

type ChapterHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewChapterHandler(db *sql.DB, cfg cliparse.Config) *ChapterHandler {
	return &ChapterHandler{db: db, cfg: cfg}
}

// List handles GET /api/admin/books/{id}/chapters
// Bodies are omitted from the listing; fetch a single chapter for the text.
func (h *ChapterHandler) List(w http.ResponseWriter, r *http.Request) {
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
		SELECT id, book_id, title, position, word_count, created_at
		FROM chapters
		WHERE book_id = $1
		ORDER BY position
	`, bookID)
	if err != nil {
		slog.Error("failed to query chapters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	chapters := []models.Chapter{}
	for rows.Next() {
		var c models.Chapter
		if err := rows.Scan(&c.ID, &c.BookID, &c.Title, &c.Position, &c.WordCount, &c.CreatedAt); err != nil {
			slog.Error("failed to scan chapter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		chapters = append(chapters, c)
	}

	middleware.JSONResponse(w, http.StatusOK, chapters)
}

// Create handles POST /api/admin/books/{id}/chapters
func (h *ChapterHandler) Create(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

	var req models.UpsertChapterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Position <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position must be positive")
		return
	}

	chapter := models.Chapter{
		ID:        auth.NewID(),
		BookID:    bookID,
		Title:     req.Title,
		Position:  req.Position,
		Body:      req.Body,
		WordCount: len(strings.Fields(req.Body)),
		CreatedAt: time.Now().UTC(),
	}

	_, err := h.db.Exec(`
		INSERT INTO chapters (id, book_id, title, position, body, word_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, chapter.ID, chapter.BookID, chapter.Title, chapter.Position,
		chapter.Body, chapter.WordCount, chapter.CreatedAt)

	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Position already taken in this book")
		return
	}
	if isForeignKeyViolation(err) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		slog.Error("failed to insert chapter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create chapter")
		return
	}

	slog.Info("chapter created", "chapter_id", chapter.ID, "book_id", bookID)

	middleware.JSONResponse(w, http.StatusCreated, chapter)
}

// Get handles GET /api/admin/chapters/{id}
func (h *ChapterHandler) Get(w http.ResponseWriter, r *http.Request) {
	chapterID := r.PathValue("id")

	var c models.Chapter
	err := h.db.QueryRow(`
		SELECT id, book_id, title, position, body, word_count, created_at
		FROM chapters WHERE id = $1
	`, chapterID).Scan(&c.ID, &c.BookID, &c.Title, &c.Position, &c.Body, &c.WordCount, &c.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chapter not found")
		return
	}
	if err != nil {
		slog.Error("failed to query chapter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// Update handles PUT /api/admin/chapters/{id}
// The word count is recomputed from the body on every update.
func (h *ChapterHandler) Update(w http.ResponseWriter, r *http.Request) {
	chapterID := r.PathValue("id")

	var req models.UpsertChapterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Position <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position must be positive")
		return
	}

	res, err := h.db.Exec(`
		UPDATE chapters
		SET title = $1, position = $2, body = $3, word_count = $4
		WHERE id = $5
	`, req.Title, req.Position, req.Body, len(strings.Fields(req.Body)), chapterID)

	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Position already taken in this book")
		return
	}
	if err != nil {
		slog.Error("failed to update chapter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update chapter")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chapter not found")
		return
	}

	h.Get(w, r)
}

// Delete handles DELETE /api/admin/chapters/{id}
func (h *ChapterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	chapterID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM chapters WHERE id = $1`, chapterID)
	if err != nil {
		slog.Error("failed to delete chapter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete chapter")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chapter not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
