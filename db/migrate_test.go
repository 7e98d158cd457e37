// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"testing"

	"github.com/hardbanrecords/lab-server/db"
	"github.com/hardbanrecords/lab-server/testutil"
	_ "github.com/lib/pq"
)

func TestMigrateFullHistory(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	v, err := db.Version(conn)
	if err != nil {
		t.Fatalf("Failed to read version: %v", err)
	}
	if want := len(db.Migrations); v != want {
		t.Errorf("Expected version %d after setup, got %d", want, v)
	}

	// Seed data ships with the schema
	var channels, stores int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM distribution_channels`).Scan(&channels); err != nil {
		t.Fatalf("Failed to count channels: %v", err)
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM publishing_stores`).Scan(&stores); err != nil {
		t.Fatalf("Failed to count stores: %v", err)
	}
	if channels < 5 || stores < 4 {
		t.Errorf("Expected seeded channels and stores, got %d and %d", channels, stores)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Second Migrate must be a no-op, got: %v", err)
	}

	var applied int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if applied != len(db.Migrations) {
		t.Errorf("Expected %d recorded migrations, got %d", len(db.Migrations), applied)
	}
}

func TestMigrationsAreContiguous(t *testing.T) {
	for i, m := range db.Migrations {
		if m.Version != i+1 {
			t.Errorf("Migration %d has version %d, history must be contiguous from 1", i, m.Version)
		}
		if m.Name == "" {
			t.Errorf("Migration %d has no name", m.Version)
		}
	}
}
