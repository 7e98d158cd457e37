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

type BookHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewBookHandler(db *sql.DB, cfg cliparse.Config) *BookHandler {
	return &BookHandler{db: db, cfg: cfg}
}

// ListAuthors handles GET /api/admin/authors
func (h *BookHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := middleware.ParsePagination(r)
	search := r.URL.Query().Get("search")

	var total int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM authors
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
	`, search).Scan(&total)
	if err != nil {
		slog.Error("failed to count authors", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, user_id, name, bio, created_at
		FROM authors
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		slog.Error("failed to query authors", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	authors := []models.Author{}
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Bio, &a.CreatedAt); err != nil {
			slog.Error("failed to scan author", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		authors = append(authors, a)
	}

	middleware.JSONResponse(w, http.StatusOK, models.Page{
		Items: authors, Total: total, Page: page, PerPage: perPage,
	})
}

// CreateAuthor handles POST /api/admin/authors
func (h *BookHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertAuthorRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	author := models.Author{
		ID:        auth.NewID(),
		UserID:    req.UserID,
		Name:      req.Name,
		Bio:       req.Bio,
		CreatedAt: time.Now().UTC(),
	}

	_, err := h.db.Exec(`
		INSERT INTO authors (id, user_id, name, bio, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, author.ID, author.UserID, author.Name, author.Bio, author.CreatedAt)

	if isForeignKeyViolation(err) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id does not exist")
		return
	}
	if err != nil {
		slog.Error("failed to insert author", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create author")
		return
	}

	slog.Info("author created", "author_id", author.ID, "name", author.Name)

	middleware.JSONResponse(w, http.StatusCreated, author)
}

// GetAuthor handles GET /api/admin/authors/{id}
func (h *BookHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	authorID := r.PathValue("id")

	var a models.Author
	err := h.db.QueryRow(`
		SELECT id, user_id, name, bio, created_at FROM authors WHERE id = $1
	`, authorID).Scan(&a.ID, &a.UserID, &a.Name, &a.Bio, &a.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Author not found")
		return
	}
	if err != nil {
		slog.Error("failed to query author", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, a)
}

// UpdateAuthor handles PUT /api/admin/authors/{id}
func (h *BookHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	authorID := r.PathValue("id")

	var req models.UpsertAuthorRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	res, err := h.db.Exec(`
		UPDATE authors SET user_id = $1, name = $2, bio = $3 WHERE id = $4
	`, req.UserID, req.Name, req.Bio, authorID)
	if err != nil {
		slog.Error("failed to update author", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update author")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Author not found")
		return
	}

	h.GetAuthor(w, r)
}

// DeleteAuthor handles DELETE /api/admin/authors/{id}
func (h *BookHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	if middleware.Role(r) != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin role required")
		return
	}

	authorID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM authors WHERE id = $1`, authorID)
	if err != nil {
		slog.Error("failed to delete author", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete author")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Author not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

const bookColumns = `id, author_id, title, subtitle, isbn, genre, status, cover_url, published_at, created_at`

func scanBook(row interface{ Scan(...any) error }) (models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.AuthorID, &b.Title, &b.Subtitle, &b.ISBN,
		&b.Genre, &b.Status, &b.CoverURL, &b.PublishedAt, &b.CreatedAt)
	return b, err
}

// ListBooks handles GET /api/admin/books
// Filters: author_id, status. Paginated.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	page, perPage, limit, offset := middleware.ParsePagination(r)
	authorID := r.URL.Query().Get("author_id")
	status := r.URL.Query().Get("status")

	var total int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM books
		WHERE ($1 = '' OR author_id = $1) AND ($2 = '' OR status = $2)
	`, authorID, status).Scan(&total)
	if err != nil {
		slog.Error("failed to count books", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT `+bookColumns+`
		FROM books
		WHERE ($1 = '' OR author_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`, authorID, status, limit, offset)
	if err != nil {
		slog.Error("failed to query books", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			slog.Error("failed to scan book", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		books = append(books, b)
	}

	middleware.JSONResponse(w, http.StatusOK, models.Page{
		Items: books, Total: total, Page: page, PerPage: perPage,
	})
}

// CreateBook handles POST /api/admin/books
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertBookRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.AuthorID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "author_id is required")
		return
	}

	book := models.Book{
		ID:        auth.NewID(),
		AuthorID:  req.AuthorID,
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		ISBN:      req.ISBN,
		Genre:     req.Genre,
		Status:    models.BookDraft,
		CoverURL:  req.CoverURL,
		CreatedAt: time.Now().UTC(),
	}

	_, err := h.db.Exec(`
		INSERT INTO books (id, author_id, title, subtitle, isbn, genre, status, cover_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, book.ID, book.AuthorID, book.Title, book.Subtitle, book.ISBN,
		book.Genre, book.Status, book.CoverURL, book.CreatedAt)

	if isForeignKeyViolation(err) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "author_id does not exist")
		return
	}
	if err != nil {
		slog.Error("failed to insert book", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create book")
		return
	}

	slog.Info("book created", "book_id", book.ID, "author_id", book.AuthorID)

	middleware.JSONResponse(w, http.StatusCreated, book)
}

// GetBook handles GET /api/admin/books/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

	b, err := scanBook(h.db.QueryRow(`
		SELECT `+bookColumns+` FROM books WHERE id = $1
	`, bookID))

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		slog.Error("failed to query book", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, b)
}

// UpdateBook handles PUT /api/admin/books/{id}
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

	var req models.UpsertBookRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	res, err := h.db.Exec(`
		UPDATE books
		SET title = $1, subtitle = $2, isbn = $3, genre = $4, cover_url = $5
		WHERE id = $6
	`, req.Title, req.Subtitle, req.ISBN, req.Genre, req.CoverURL, bookID)
	if err != nil {
		slog.Error("failed to update book", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update book")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Book not found")
		return
	}

	h.GetBook(w, r)
}

// DeleteBook handles DELETE /api/admin/books/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if middleware.Role(r) != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin role required")
		return
	}

	bookID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM books WHERE id = $1`, bookID)
	if err != nil {
		slog.Error("failed to delete book", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete book")
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Book not found")
		return
	}

	slog.Info("book deleted", "book_id", bookID, "by", middleware.UserID(r))

	w.WriteHeader(http.StatusNoContent)
}

// PublishBook handles POST /api/admin/books/{id}/publish
// draft → published. Requires at least one chapter.
func (h *BookHandler) PublishBook(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

	var status string
	var chapterCount int
	err := h.db.QueryRow(`
		SELECT b.status, COUNT(c.id)
		FROM books b
		LEFT JOIN chapters c ON b.id = c.book_id
		WHERE b.id = $1
		GROUP BY b.status
	`, bookID).Scan(&status, &chapterCount)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		slog.Error("failed to query book", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.BookDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Book is not in draft status")
		return
	}
	if chapterCount == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Book must have at least one chapter")
		return
	}

	_, err = h.db.Exec(`
		UPDATE books SET status = $1, published_at = $2 WHERE id = $3
	`, models.BookPublished, time.Now().UTC(), bookID)
	if err != nil {
		slog.Error("failed to publish book", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to publish book")
		return
	}

	slog.Info("book published", "book_id", bookID)

	h.GetBook(w, r)
}

// ArchiveBook handles POST /api/admin/books/{id}/archive
// published → archived. Archived books keep their publication records.
func (h *BookHandler) ArchiveBook(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")

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
		middleware.ErrorResponse(w, http.StatusConflict, "Only published books can be archived")
		return
	}

	_, err = h.db.Exec(`
		UPDATE books SET status = $1 WHERE id = $2
	`, models.BookArchived, bookID)
	if err != nil {
		slog.Error("failed to archive book", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to archive book")
		return
	}

	slog.Info("book archived", "book_id", bookID)

	h.GetBook(w, r)
}
