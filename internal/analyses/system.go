package analyses

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for analysis run operations.
type System interface {
	Handler() *Handler

	// Start validates the document, records a running run, and executes the
	// pipeline in the background. The returned run is a snapshot at start.
	Start(ctx context.Context, cmd StartCommand) (*Run, error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Run, error)
}
