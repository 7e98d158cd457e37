// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package storage wraps the S3-compatible bucket for uploaded media.

Cover art, audio masters, and manuscripts are stored under
kind-prefixed keys:

	cover/<uuid>-artwork.png
	audio/<uuid>-master.wav
	manuscript/<uuid>-draft.epub

Storage is optional: when the STORAGE_* settings are absent the server
runs without a Store and upload endpoints answer 503. Any S3-compatible
endpoint works (MinIO locally, a hosted bucket in production).
*/
package storage
