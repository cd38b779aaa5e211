package api

import "time"

// Upload limits and constants.
const (
	// DefaultMaxUploadBytes is used when Options leaves the upload cap unset (256 MB).
	DefaultMaxUploadBytes = 256 << 20

	// DefaultUploadTimeout bounds a single upload including extraction.
	DefaultUploadTimeout = 10 * time.Minute

	// UploadField is the multipart field carrying the archive.
	UploadField = "archive"

	// maxMemory is how much of a multipart body is buffered before spilling to disk.
	maxMemory = 32 << 20
)

// MaxTableRows caps the raw row table on the dashboard page.
const MaxTableRows = 500

// Cache-Control header values.
const (
	CacheNoStore = "no-store"
)
