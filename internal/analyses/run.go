// Package analyses implements the analysis run domain. A run executes the
// full analysis pipeline against an uploaded document asynchronously and
// persists the aggregate result for later retrieval.
package analyses

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Run statuses. A run is created as running and transitions exactly once to
// completed or failed.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run represents one pipeline execution against a document. Result holds the
// pipeline's aggregate output as raw JSON when the run completed; Error holds
// the failure message when it did not.
type Run struct {
	ID          uuid.UUID       `json:"id"`
	DocumentID  uuid.UUID       `json:"document_id"`
	Status      string          `json:"status"`
	Provider    string          `json:"provider,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       *string         `json:"error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// StartCommand carries the data needed to start an analysis run.
type StartCommand struct {
	DocumentID uuid.UUID `json:"document_id"`
}
