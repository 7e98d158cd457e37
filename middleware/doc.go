// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and request/response helpers.

# Request Logging

	mux.HandleFunc("POST /api/admin/artists", middleware.WithLogging(h.Create))

Logs method, path, remote address on entry and duration on exit via slog.

# Authentication

RequireAuth validates the Authorization: Bearer session token and exposes
the caller to downstream handlers:

	middleware.RequireAuth(cfg.SessionSalt, h.Create)
	userID := middleware.UserID(r)
	role := middleware.Role(r)

# Pagination

	page, perPage, limit, offset := middleware.ParsePagination(r)

Defaults to page 1 / 25 per page, caps per_page at 100, and normalizes
nonsense values instead of erroring.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Artist not found")
	err := middleware.ParseJSONBody(r, &req)

# CORS

The CORS middleware reflects the request origin and handles OPTIONS
preflight. Applied once around the whole mux in main.
*/
package middleware
