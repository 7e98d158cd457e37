// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

// SessionTTL is how long a minted session token stays valid.
const SessionTTL = 72 * time.Hour

// NewID returns a fresh UUID string for database primary keys.
func NewID() string {
	return uuid.NewString()
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash against a plaintext candidate.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateSessionToken mints a stateless HMAC-signed session token.
// The payload is "userID|role|expiryUnix"; the signature is HMAC-SHA256
// over the payload with the server salt. No server-side session storage.
func GenerateSessionToken(userID, role, salt string, ttl time.Duration) string {
	expiry := time.Now().Add(ttl).Unix()
	payload := userID + "|" + role + "|" + strconv.FormatInt(expiry, 10)
	sig := sign(payload, salt)
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." +
		base64.RawURLEncoding.EncodeToString(sig)
}

// ParseSessionToken validates a session token and returns the user ID and
// role. Returns ErrInvalidToken on any structural or signature problem and
// ErrTokenExpired when the token is past its expiry.
func ParseSessionToken(token, salt string) (userID, role string, err error) {
	encPayload, encSig, ok := strings.Cut(token, ".")
	if !ok {
		return "", "", ErrInvalidToken
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(encPayload)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	sigBytes, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	payload := string(payloadBytes)
	if !hmac.Equal(sigBytes, sign(payload, salt)) {
		return "", "", ErrInvalidToken
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return "", "", ErrInvalidToken
	}

	expiry, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	if time.Now().Unix() > expiry {
		return "", "", ErrTokenExpired
	}

	return parts[0], parts[1], nil
}

func sign(payload, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(payload))
	return h.Sum(nil)
}
