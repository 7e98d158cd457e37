// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hardbanrecords/lab-server/middleware"
	"github.com/hardbanrecords/lab-server/models"
	"github.com/hardbanrecords/lab-server/testutil"
	_ "github.com/lib/pq"
)

func TestListAuthors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBookHandler(db, cfg)

	testutil.CreateTestAuthor(t, db, "Maria Novak")
	testutil.CreateTestAuthor(t, db, "Jon Field")
	testutil.CreateTestAuthor(t, db, "Marianne West")

	tests := []struct {
		name          string
		query         string
		expectedTotal int
	}{
		{"all authors", "", 3},
		{"search match", "?search=maria", 2},
		{"search no match", "?search=zzz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/admin/authors"+tt.query, nil, nil)
			w := httptest.NewRecorder()

			handler.ListAuthors(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var page struct {
				Items []models.Author `json:"items"`
				Total int             `json:"total"`
			}
			testutil.AssertJSON(t, w, &page)

			if page.Total != tt.expectedTotal {
				t.Errorf("Expected total %d, got %d", tt.expectedTotal, page.Total)
			}
		})
	}
}

func TestCreateAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBookHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid author",
			requestBody:    models.UpsertAuthorRequest{Name: "Hollis Frame", Bio: "Debut novelist"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			requestBody:    models.UpsertAuthorRequest{Bio: "Anonymous"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown user_id",
			requestBody:    models.UpsertAuthorRequest{Name: "Linked", UserID: strPtr("no-such-user")},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/admin/authors", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.CreateAuthor(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestUpdateAndDeleteAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBookHandler(db, cfg)
	_, adminToken := testutil.CreateTestUser(t, db, cfg, "admin@label.test", models.RoleAdmin)
	authorID := testutil.CreateTestAuthor(t, db, "Before Rename")

	t.Run("update author", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/api/admin/authors/"+authorID, models.UpsertAuthorRequest{
			Name: "After Rename",
			Bio:  "Updated",
		}, nil)
		req.SetPathValue("id", authorID)
		w := httptest.NewRecorder()

		handler.UpdateAuthor(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var author models.Author
		testutil.AssertJSON(t, w, &author)
		if author.Name != "After Rename" {
			t.Errorf("Update not reflected: %+v", author)
		}
	})

	t.Run("delete cascades to books", func(t *testing.T) {
		bookID := testutil.CreateTestBook(t, db, authorID, "Orphaned", models.BookDraft)

		req := testutil.MakeRequest("DELETE", "/api/admin/authors/"+authorID, nil, testutil.AuthHeaders(adminToken))
		req.SetPathValue("id", authorID)
		w := httptest.NewRecorder()

		middleware.RequireAuth(cfg.SessionSalt, handler.DeleteAuthor)(w, req)

		testutil.AssertStatus(t, w, http.StatusNoContent)

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM books WHERE id = $1`, bookID).Scan(&count); err != nil {
			t.Fatalf("Failed to count books: %v", err)
		}
		if count != 0 {
			t.Error("Expected cascade to remove the author's books")
		}
	})
}

func TestListBooks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBookHandler(db, cfg)

	authorA := testutil.CreateTestAuthor(t, db, "Author A")
	authorB := testutil.CreateTestAuthor(t, db, "Author B")
	testutil.CreateTestBook(t, db, authorA, "Draft Novel", models.BookDraft)
	testutil.CreateTestBook(t, db, authorA, "Published Novel", models.BookPublished)
	testutil.CreateTestBook(t, db, authorB, "Another One", models.BookPublished)

	tests := []struct {
		name          string
		query         string
		expectedTotal int
	}{
		{"all books", "", 3},
		{"filter by author", "?author_id=" + authorA, 2},
		{"filter by status", "?status=published", 2},
		{"filter no match", "?status=archived", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/admin/books"+tt.query, nil, nil)
			w := httptest.NewRecorder()

			handler.ListBooks(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var page struct {
				Items []models.Book `json:"items"`
				Total int           `json:"total"`
			}
			testutil.AssertJSON(t, w, &page)

			if page.Total != tt.expectedTotal {
				t.Errorf("Expected total %d, got %d", tt.expectedTotal, page.Total)
			}
		})
	}
}

func TestCreateBook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBookHandler(db, cfg)
	authorID := testutil.CreateTestAuthor(t, db, "Maria Novak")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "valid book",
			requestBody: models.UpsertBookRequest{
				AuthorID: authorID,
				Title:    "The Quiet Harbor",
				Genre:    "literary fiction",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unknown author",
			requestBody:    models.UpsertBookRequest{AuthorID: "missing", Title: "Ghostwritten"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing title",
			requestBody:    models.UpsertBookRequest{AuthorID: authorID},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing author",
			requestBody:    models.UpsertBookRequest{Title: "Nobody's Book"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/admin/books", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.CreateBook(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var book models.Book
				testutil.AssertJSON(t, w, &book)
				if book.Status != models.BookDraft {
					t.Errorf("New book should be draft, got %q", book.Status)
				}
				if book.PublishedAt != nil {
					t.Error("New book should not have published_at")
				}
			}
		})
	}
}

func TestPublishBook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBookHandler(db, cfg)
	authorID := testutil.CreateTestAuthor(t, db, "Jon Field")

	t.Run("draft with chapters publishes", func(t *testing.T) {
		bookID := testutil.CreateTestBook(t, db, authorID, "Ready", models.BookDraft)
		testutil.CreateTestChapter(t, db, bookID, "Chapter One", 1)

		req := testutil.MakeRequest("POST", "/api/admin/books/"+bookID+"/publish", nil, nil)
		req.SetPathValue("id", bookID)
		w := httptest.NewRecorder()

		handler.PublishBook(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var book models.Book
		testutil.AssertJSON(t, w, &book)
		if book.Status != models.BookPublished {
			t.Errorf("Expected published, got %q", book.Status)
		}
		if book.PublishedAt == nil {
			t.Error("Expected published_at to be stamped")
		}
	})

	t.Run("empty book cannot publish", func(t *testing.T) {
		bookID := testutil.CreateTestBook(t, db, authorID, "Empty", models.BookDraft)

		req := testutil.MakeRequest("POST", "/api/admin/books/"+bookID+"/publish", nil, nil)
		req.SetPathValue("id", bookID)
		w := httptest.NewRecorder()

		handler.PublishBook(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("already published conflicts", func(t *testing.T) {
		bookID := testutil.CreateTestBook(t, db, authorID, "Out", models.BookPublished)
		testutil.CreateTestChapter(t, db, bookID, "Chapter One", 1)

		req := testutil.MakeRequest("POST", "/api/admin/books/"+bookID+"/publish", nil, nil)
		req.SetPathValue("id", bookID)
		w := httptest.NewRecorder()

		handler.PublishBook(w, req)

		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("unknown book", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/admin/books/missing/publish", nil, nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()

		handler.PublishBook(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestArchiveBook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBookHandler(db, cfg)
	authorID := testutil.CreateTestAuthor(t, db, "Edwin Marsh")

	archive := func(bookID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/api/admin/books/"+bookID+"/archive", nil, nil)
		req.SetPathValue("id", bookID)
		w := httptest.NewRecorder()
		handler.ArchiveBook(w, req)
		return w
	}

	t.Run("published book archives", func(t *testing.T) {
		bookID := testutil.CreateTestBook(t, db, authorID, "Backlist", models.BookPublished)

		w := archive(bookID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var book models.Book
		testutil.AssertJSON(t, w, &book)
		if book.Status != models.BookArchived {
			t.Errorf("Expected archived, got %q", book.Status)
		}
	})

	t.Run("draft book cannot archive", func(t *testing.T) {
		bookID := testutil.CreateTestBook(t, db, authorID, "Unwritten", models.BookDraft)

		w := archive(bookID)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("archive is terminal", func(t *testing.T) {
		bookID := testutil.CreateTestBook(t, db, authorID, "Shelved", models.BookArchived)

		w := archive(bookID)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("unknown book", func(t *testing.T) {
		w := archive("missing")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestUpdateBookKeepsStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBookHandler(db, cfg)
	authorID := testutil.CreateTestAuthor(t, db, "Marianne West")
	bookID := testutil.CreateTestBook(t, db, authorID, "Stable", models.BookPublished)

	req := testutil.MakeRequest("PUT", "/api/admin/books/"+bookID, models.UpsertBookRequest{
		AuthorID: authorID,
		Title:    "Stable, Revised",
		Genre:    "memoir",
	}, nil)
	req.SetPathValue("id", bookID)
	w := httptest.NewRecorder()

	handler.UpdateBook(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var book models.Book
	testutil.AssertJSON(t, w, &book)
	if book.Title != "Stable, Revised" || book.Genre != "memoir" {
		t.Errorf("Update not reflected: %+v", book)
	}
	if book.Status != models.BookPublished {
		t.Errorf("Update endpoint must not change status, got %q", book.Status)
	}
}

func TestDeleteBook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewBookHandler(db, cfg)
	_, adminToken := testutil.CreateTestUser(t, db, cfg, "admin2@label.test", models.RoleAdmin)
	_, staffToken := testutil.CreateTestUser(t, db, cfg, "staff2@label.test", models.RoleStaff)
	authorID := testutil.CreateTestAuthor(t, db, "Shortlived")

	t.Run("staff forbidden", func(t *testing.T) {
		bookID := testutil.CreateTestBook(t, db, authorID, "Keep Me", models.BookDraft)
		req := testutil.MakeRequest("DELETE", "/api/admin/books/"+bookID, nil, testutil.AuthHeaders(staffToken))
		req.SetPathValue("id", bookID)
		w := httptest.NewRecorder()

		middleware.RequireAuth(cfg.SessionSalt, handler.DeleteBook)(w, req)

		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("admin deletes with chapter cascade", func(t *testing.T) {
		bookID := testutil.CreateTestBook(t, db, authorID, "Gone", models.BookDraft)
		testutil.CreateTestChapter(t, db, bookID, "Only Chapter", 1)

		req := testutil.MakeRequest("DELETE", "/api/admin/books/"+bookID, nil, testutil.AuthHeaders(adminToken))
		req.SetPathValue("id", bookID)
		w := httptest.NewRecorder()

		middleware.RequireAuth(cfg.SessionSalt, handler.DeleteBook)(w, req)

		testutil.AssertStatus(t, w, http.StatusNoContent)

		var chapters int
		if err := db.QueryRow(`SELECT COUNT(*) FROM chapters WHERE book_id = $1`, bookID).Scan(&chapters); err != nil {
			t.Fatalf("Failed to count chapters: %v", err)
		}
		if chapters != 0 {
			t.Errorf("Expected cascade to remove chapters, found %d", chapters)
		}
	})
}
