// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/hardbanrecords/lab-server/auth"
	"github.com/hardbanrecords/lab-server/cliparse"
	"github.com/hardbanrecords/lab-server/middleware"
	"github.com/hardbanrecords/lab-server/storage"
)

// maxUploadBytes bounds a single multipart upload (audio masters are big).
const maxUploadBytes = 512 << 20 // 512 MiB

type UploadHandler struct {
	store *storage.Store
	cfg   cliparse.Config
}

// NewUploadHandler accepts a nil store; uploads then answer 503.
func NewUploadHandler(store *storage.Store, cfg cliparse.Config) *UploadHandler {
	return &UploadHandler{store: store, cfg: cfg}
}

type uploadResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
	Size      string `json:"size"`
}

func validUploadKind(kind string) bool {
	return kind == "cover" || kind == "audio" || kind == "manuscript"
}

// Upload handles POST /api/admin/uploads?kind=cover|audio|manuscript
// Streams the "file" multipart part into the bucket under a kind-prefixed,
// UUID-namespaced key so client filenames can never collide.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	kind := r.URL.Query().Get("kind")
	if !validUploadKind(kind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "kind must be one of: cover, audio, manuscript")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := kind + "/" + auth.NewID() + "-" + filepath.Base(header.Filename)

	url, err := h.store.Upload(r.Context(), key, file, header.Size, contentType)
	if err != nil {
		slog.Error("failed to upload file", "error", err, "key", key)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	slog.Info("file uploaded", "key", key, "size_bytes", header.Size, "by", middleware.UserID(r))

	middleware.JSONResponse(w, http.StatusCreated, uploadResponse{
		Key:       key,
		URL:       url,
		SizeBytes: header.Size,
		Size:      humanize.IBytes(uint64(header.Size)),
	})
}
