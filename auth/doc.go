// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens, and ID generation.

# Passwords

Passwords are hashed with bcrypt at the default cost:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate)

# Session Tokens

Session tokens are stateless HMAC-SHA256 signatures over a
"userID|role|expiry" payload:

	token := auth.GenerateSessionToken(userID, role, salt, auth.SessionTTL)
	userID, role, err := auth.ParseSessionToken(token, salt)

Because the signature is deterministic from the server salt, tokens can be
validated without a session table. Rotating the salt invalidates every
outstanding token.

# ID Generation

Entity primary keys are UUIDv4 strings:

	id := auth.NewID()
*/
package auth
