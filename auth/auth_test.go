// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	if a == b {
		t.Error("Expected unique IDs, got duplicates")
	}
	if len(a) != 36 {
		t.Errorf("Expected 36-char UUID, got %d chars: %s", len(a), a)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword rejected correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong password"); err == nil {
		t.Error("CheckPassword accepted wrong password")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, _ := HashPassword("same password")
	h2, _ := HashPassword("same password")
	if h1 == h2 {
		t.Error("Expected different hashes for same password (random salt)")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token := GenerateSessionToken("user-123", "admin", "test-salt", time.Hour)

	userID, role, err := ParseSessionToken(token, "test-salt")
	if err != nil {
		t.Fatalf("ParseSessionToken failed: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Expected user-123, got %s", userID)
	}
	if role != "admin" {
		t.Errorf("Expected admin, got %s", role)
	}
}

func TestSessionTokenWrongSalt(t *testing.T) {
	token := GenerateSessionToken("user-123", "staff", "salt-a", time.Hour)

	_, _, err := ParseSessionToken(token, "salt-b")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionTokenExpired(t *testing.T) {
	token := GenerateSessionToken("user-123", "staff", "test-salt", -time.Minute)

	_, _, err := ParseSessionToken(token, "test-salt")
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestSessionTokenTampered(t *testing.T) {
	token := GenerateSessionToken("user-123", "staff", "test-salt", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"missing signature", strings.Split(token, ".")[0]},
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"swapped halves", func() string {
			parts := strings.Split(token, ".")
			return parts[1] + "." + parts[0]
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseSessionToken(tt.token, "test-salt"); err == nil {
				t.Error("Expected error for tampered token")
			}
		})
	}
}
