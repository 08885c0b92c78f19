package documents

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, filters Filters, limit, offset int) ([]Document, error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Text returns the document's content as analyzable text. Only textual
	// content types are supported; other types fail with ErrNotText.
	Text(ctx context.Context, id uuid.UUID) (string, error)

	// MarkAnalyzed transitions the document to the analyzed status.
	MarkAnalyzed(ctx context.Context, id uuid.UUID) error
}
