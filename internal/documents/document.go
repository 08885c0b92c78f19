// Package documents implements the legal source document domain. It provides
// types, data access, and HTTP handlers for document upload, metadata
// management, blob storage integration, and text retrieval for analysis.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document statuses. A document starts as uploaded and becomes analyzed once
// an analysis run completes against it.
const (
	StatusUploaded = "uploaded"
	StatusAnalyzed = "analyzed"
)

// Document represents an uploaded legal document with its metadata and blob
// storage reference.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	Status      string    `json:"status"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new
// document. Data holds the raw file bytes. PageCount is optional and may be
// extracted by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}

// Filters contains optional filtering criteria for document listings.
// Nil fields are ignored. Status uses exact matching; Filename uses
// case-insensitive contains matching.
type Filters struct {
	Status   *string
	Filename *string
}
