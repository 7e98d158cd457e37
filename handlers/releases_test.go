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

func TestListReleases(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewReleaseHandler(db, cfg)

	artistA := testutil.CreateTestArtist(t, db, "Artist A")
	artistB := testutil.CreateTestArtist(t, db, "Artist B")
	testutil.CreateTestRelease(t, db, artistA, "Draft One", models.ReleaseDraft)
	testutil.CreateTestRelease(t, db, artistA, "Live One", models.ReleasePublished)
	testutil.CreateTestRelease(t, db, artistB, "Live Two", models.ReleasePublished)

	tests := []struct {
		name          string
		query         string
		expectedTotal int
	}{
		{"all releases", "", 3},
		{"filter by artist", "?artist_id=" + artistA, 2},
		{"filter by status", "?status=published", 2},
		{"filter by artist and status", "?artist_id=" + artistA + "&status=published", 1},
		{"filter no match", "?status=takedown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/admin/releases"+tt.query, nil, nil)
			w := httptest.NewRecorder()

			handler.List(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var page struct {
				Items []models.Release `json:"items"`
				Total int              `json:"total"`
			}
			testutil.AssertJSON(t, w, &page)

			if page.Total != tt.expectedTotal {
				t.Errorf("Expected total %d, got %d", tt.expectedTotal, page.Total)
			}
		})
	}
}

func TestCreateRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewReleaseHandler(db, cfg)
	artistID := testutil.CreateTestArtist(t, db, "Neon Harbor")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedType   string
	}{
		{
			name: "valid album",
			requestBody: models.UpsertReleaseRequest{
				ArtistID: artistID,
				Title:    "Harbor Lights",
				Type:     models.TypeAlbum,
				Genre:    "synthwave",
			},
			expectedStatus: http.StatusCreated,
			expectedType:   models.TypeAlbum,
		},
		{
			name: "type defaults to single",
			requestBody: models.UpsertReleaseRequest{
				ArtistID: artistID,
				Title:    "One Off",
			},
			expectedStatus: http.StatusCreated,
			expectedType:   models.TypeSingle,
		},
		{
			name: "invalid type",
			requestBody: models.UpsertReleaseRequest{
				ArtistID: artistID,
				Title:    "Mixtape",
				Type:     "mixtape",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown artist",
			requestBody: models.UpsertReleaseRequest{
				ArtistID: "no-such-artist",
				Title:    "Ghost Album",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing title",
			requestBody:    models.UpsertReleaseRequest{ArtistID: artistID},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/admin/releases", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var rel models.Release
				testutil.AssertJSON(t, w, &rel)
				if rel.Status != models.ReleaseDraft {
					t.Errorf("New release should be draft, got %q", rel.Status)
				}
				if rel.Type != tt.expectedType {
					t.Errorf("Expected type %q, got %q", tt.expectedType, rel.Type)
				}
			}
		})
	}
}

func TestUpdateRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewReleaseHandler(db, cfg)
	artistID := testutil.CreateTestArtist(t, db, "Night Drive")
	releaseID := testutil.CreateTestRelease(t, db, artistID, "Before", models.ReleaseDraft)

	t.Run("update fields", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/api/admin/releases/"+releaseID, models.UpsertReleaseRequest{
			ArtistID: artistID,
			Title:    "After",
			Type:     models.TypeEP,
			Genre:    "ambient",
		}, nil)
		req.SetPathValue("id", releaseID)
		w := httptest.NewRecorder()

		handler.Update(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var rel models.Release
		testutil.AssertJSON(t, w, &rel)
		if rel.Title != "After" || rel.Type != models.TypeEP || rel.Genre != "ambient" {
			t.Errorf("Update not reflected: %+v", rel)
		}
	})

	t.Run("empty type keeps existing", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/api/admin/releases/"+releaseID, models.UpsertReleaseRequest{
			ArtistID: artistID,
			Title:    "After Again",
		}, nil)
		req.SetPathValue("id", releaseID)
		w := httptest.NewRecorder()

		handler.Update(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var rel models.Release
		testutil.AssertJSON(t, w, &rel)
		if rel.Type != models.TypeEP {
			t.Errorf("Expected type to survive empty update, got %q", rel.Type)
		}
	})

	t.Run("status not updatable here", func(t *testing.T) {
		var status string
		if err := db.QueryRow(`SELECT status FROM releases WHERE id = $1`, releaseID).Scan(&status); err != nil {
			t.Fatalf("Failed to query release: %v", err)
		}
		if status != models.ReleaseDraft {
			t.Errorf("Update endpoint must not change status, got %q", status)
		}
	})
}

func TestPublishRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewReleaseHandler(db, cfg)
	artistID := testutil.CreateTestArtist(t, db, "Basement Tapes")

	t.Run("draft with tracks publishes", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Ready", models.ReleaseDraft)
		testutil.CreateTestTrack(t, db, releaseID, "Opener", 1)

		req := testutil.MakeRequest("POST", "/api/admin/releases/"+releaseID+"/publish", nil, nil)
		req.SetPathValue("id", releaseID)
		w := httptest.NewRecorder()

		handler.Publish(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var rel models.Release
		testutil.AssertJSON(t, w, &rel)
		if rel.Status != models.ReleasePublished {
			t.Errorf("Expected published, got %q", rel.Status)
		}
	})

	t.Run("empty release cannot publish", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Empty", models.ReleaseDraft)

		req := testutil.MakeRequest("POST", "/api/admin/releases/"+releaseID+"/publish", nil, nil)
		req.SetPathValue("id", releaseID)
		w := httptest.NewRecorder()

		handler.Publish(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("already published conflicts", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Out", models.ReleasePublished)
		testutil.CreateTestTrack(t, db, releaseID, "Song", 1)

		req := testutil.MakeRequest("POST", "/api/admin/releases/"+releaseID+"/publish", nil, nil)
		req.SetPathValue("id", releaseID)
		w := httptest.NewRecorder()

		handler.Publish(w, req)

		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("unknown release", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/admin/releases/missing/publish", nil, nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()

		handler.Publish(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestScheduleRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewReleaseHandler(db, cfg)
	artistID := testutil.CreateTestArtist(t, db, "Advance Notice")

	schedule := func(releaseID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/api/admin/releases/"+releaseID+"/schedule", nil, nil)
		req.SetPathValue("id", releaseID)
		w := httptest.NewRecorder()
		handler.Schedule(w, req)
		return w
	}

	t.Run("draft with release date schedules", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Preorder", models.ReleaseDraft)
		if _, err := db.Exec(`UPDATE releases SET release_date = '2026-10-01' WHERE id = $1`, releaseID); err != nil {
			t.Fatalf("Failed to set release date: %v", err)
		}

		w := schedule(releaseID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var rel models.Release
		testutil.AssertJSON(t, w, &rel)
		if rel.Status != models.ReleaseScheduled {
			t.Errorf("Expected scheduled, got %q", rel.Status)
		}
	})

	t.Run("scheduled release can publish", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Day Of", models.ReleaseScheduled)
		testutil.CreateTestTrack(t, db, releaseID, "Single", 1)

		req := testutil.MakeRequest("POST", "/api/admin/releases/"+releaseID+"/publish", nil, nil)
		req.SetPathValue("id", releaseID)
		w := httptest.NewRecorder()

		handler.Publish(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("no release date", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Someday", models.ReleaseDraft)

		w := schedule(releaseID)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("published release cannot schedule", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Too Late", models.ReleasePublished)
		if _, err := db.Exec(`UPDATE releases SET release_date = '2026-10-01' WHERE id = $1`, releaseID); err != nil {
			t.Fatalf("Failed to set release date: %v", err)
		}

		w := schedule(releaseID)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("unknown release", func(t *testing.T) {
		w := schedule("missing")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestTakedownRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewReleaseHandler(db, cfg)
	artistID := testutil.CreateTestArtist(t, db, "Retraction")

	takedown := func(releaseID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/api/admin/releases/"+releaseID+"/takedown", nil, nil)
		req.SetPathValue("id", releaseID)
		w := httptest.NewRecorder()
		handler.Takedown(w, req)
		return w
	}

	t.Run("published release comes down", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Pulled", models.ReleasePublished)

		w := takedown(releaseID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var rel models.Release
		testutil.AssertJSON(t, w, &rel)
		if rel.Status != models.ReleaseTakedown {
			t.Errorf("Expected takedown, got %q", rel.Status)
		}
	})

	t.Run("draft release cannot come down", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Never Out", models.ReleaseDraft)

		w := takedown(releaseID)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("takedown is terminal", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Gone", models.ReleaseTakedown)

		w := takedown(releaseID)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("unknown release", func(t *testing.T) {
		w := takedown("missing")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestDeleteRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewReleaseHandler(db, cfg)
	_, adminToken := testutil.CreateTestUser(t, db, cfg, "admin@label.test", models.RoleAdmin)
	_, artistToken := testutil.CreateTestUser(t, db, cfg, "artist@label.test", models.RoleArtist)
	artistID := testutil.CreateTestArtist(t, db, "Shortlived")

	t.Run("non-admin forbidden", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Keep Me", models.ReleaseDraft)
		req := testutil.MakeRequest("DELETE", "/api/admin/releases/"+releaseID, nil, testutil.AuthHeaders(artistToken))
		req.SetPathValue("id", releaseID)
		w := httptest.NewRecorder()

		middleware.RequireAuth(cfg.SessionSalt, handler.Delete)(w, req)

		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("admin deletes", func(t *testing.T) {
		releaseID := testutil.CreateTestRelease(t, db, artistID, "Gone", models.ReleaseDraft)
		req := testutil.MakeRequest("DELETE", "/api/admin/releases/"+releaseID, nil, testutil.AuthHeaders(adminToken))
		req.SetPathValue("id", releaseID)
		w := httptest.NewRecorder()

		middleware.RequireAuth(cfg.SessionSalt, handler.Delete)(w, req)

		testutil.AssertStatus(t, w, http.StatusNoContent)
	})
}
