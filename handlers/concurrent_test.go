// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hardbanrecords/lab-server/models"
	"github.com/hardbanrecords/lab-server/testutil"
	_ "github.com/lib/pq"
)

// TestConcurrentSplitCreation verifies that simultaneous split creates on the
// same release never push the allocation past 100%. The handler serializes
// writers with a row lock on the release, so with ten concurrent 30% requests
// exactly three can land.
func TestConcurrentSplitCreation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoyaltyHandler(db, cfg)

	artistID := testutil.CreateTestArtist(t, db, "Race Condition")
	releaseID := testutil.CreateTestRelease(t, db, artistID, "Contention", models.ReleaseDraft)

	numWriters := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numWriters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/api/admin/releases/"+releaseID+"/splits",
				models.UpsertSplitRequest{
					RecipientName:  fmt.Sprintf("Writer %d", idx),
					RecipientEmail: fmt.Sprintf("writer%d@label.test", idx),
					SharePercent:   30,
				}, nil)
			req.SetPathValue("id", releaseID)
			w := httptest.NewRecorder()

			handler.CreateSplit(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			} else if w.Code != http.StatusUnprocessableEntity {
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 3 {
		t.Errorf("Expected exactly 3 successful splits, got %d", successCount.Load())
	}

	var total float64
	var count int
	err := db.QueryRow(`
		SELECT COALESCE(SUM(share_percent), 0), COUNT(*) FROM royalty_splits WHERE release_id = $1
	`, releaseID).Scan(&total, &count)
	if err != nil {
		t.Fatalf("Failed to sum splits: %v", err)
	}
	if count != 3 || total != 90 {
		t.Errorf("Expected 3 splits totalling 90%%, got %d totalling %v", count, total)
	}
}

// TestConcurrentSplitUpdateVsCreate races split updates against split creates
// on the same release. Both paths lock the release row, so no interleaving
// may push the total past 100% even though each write passes its own check.
func TestConcurrentSplitUpdateVsCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRoyaltyHandler(db, cfg)

	artistID := testutil.CreateTestArtist(t, db, "Lock Step")
	releaseID := testutil.CreateTestRelease(t, db, artistID, "Interleave", models.ReleaseDraft)

	req := testutil.MakeRequest("POST", "/api/admin/releases/"+releaseID+"/splits",
		models.UpsertSplitRequest{
			RecipientName:  "Founder",
			RecipientEmail: "founder@label.test",
			SharePercent:   40,
		}, nil)
	req.SetPathValue("id", releaseID)
	w := httptest.NewRecorder()
	handler.CreateSplit(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var seed models.RoyaltySplit
	testutil.AssertJSON(t, w, &seed)

	numPairs := 5
	var wg sync.WaitGroup

	for i := 0; i < numPairs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/api/admin/releases/"+releaseID+"/splits",
				models.UpsertSplitRequest{
					RecipientName:  fmt.Sprintf("Session Player %d", idx),
					RecipientEmail: fmt.Sprintf("session%d@label.test", idx),
					SharePercent:   20,
				}, nil)
			req.SetPathValue("id", releaseID)
			w := httptest.NewRecorder()

			handler.CreateSplit(w, req)

			if w.Code != http.StatusCreated && w.Code != http.StatusUnprocessableEntity {
				t.Errorf("Unexpected create status %d: %s", w.Code, w.Body.String())
			}
		}(i)

		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("PUT", "/api/admin/splits/"+seed.ID,
				models.UpsertSplitRequest{
					RecipientName:  "Founder",
					RecipientEmail: "founder@label.test",
					SharePercent:   100,
				}, nil)
			req.SetPathValue("id", seed.ID)
			w := httptest.NewRecorder()

			handler.UpdateSplit(w, req)

			if w.Code != http.StatusOK && w.Code != http.StatusUnprocessableEntity {
				t.Errorf("Unexpected update status %d: %s", w.Code, w.Body.String())
			}
		}()
	}

	wg.Wait()

	var total float64
	if err := db.QueryRow(`
		SELECT COALESCE(SUM(share_percent), 0) FROM royalty_splits WHERE release_id = $1
	`, releaseID).Scan(&total); err != nil {
		t.Fatalf("Failed to sum splits: %v", err)
	}
	if total > 100 {
		t.Errorf("Allocation exceeded 100%%: %v", total)
	}
}

// TestConcurrentRegistrations races first-time registrations on an empty
// database. The advisory lock around the bootstrap count means exactly one
// account can come out admin no matter how the inserts interleave.
func TestConcurrentRegistrations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(db, cfg)

	numWriters := 6
	var wg sync.WaitGroup

	for i := 0; i < numWriters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/api/auth/register",
				models.RegisterRequest{
					Email:    fmt.Sprintf("founder%d@label.test", idx),
					Password: "sufficiently-long",
					Name:     fmt.Sprintf("Founder %d", idx),
				}, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			if w.Code != http.StatusCreated {
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	var admins, total int
	err := db.QueryRow(`
		SELECT COUNT(*) FILTER (WHERE role = $1), COUNT(*) FROM users
	`, models.RoleAdmin).Scan(&admins, &total)
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if total != numWriters {
		t.Errorf("Expected %d accounts, got %d", numWriters, total)
	}
	if admins != 1 {
		t.Errorf("Expected exactly 1 admin, got %d", admins)
	}
}

// TestConcurrentPayoutTransitions races status updates on one payout. The
// guarded UPDATE makes at most one of the competing transitions win.
func TestConcurrentPayoutTransitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPayoutHandler(db, cfg)

	artistID := testutil.CreateTestArtist(t, db, "Double Spend")
	payout := createTestPayout(t, handler, artistID)

	numWriters := 8
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numWriters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("PUT", "/api/admin/payouts/"+payout.ID+"/status",
				models.UpdatePayoutStatusRequest{Status: models.PayoutProcessing}, nil)
			req.SetPathValue("id", payout.ID)
			w := httptest.NewRecorder()

			handler.UpdateStatus(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 winning transition, got %d", successCount.Load())
	}

	var status string
	if err := db.QueryRow(`SELECT status FROM payouts WHERE id = $1`, payout.ID).Scan(&status); err != nil {
		t.Fatalf("Failed to query payout: %v", err)
	}
	if status != models.PayoutProcessing {
		t.Errorf("Expected processing, got %q", status)
	}
}
