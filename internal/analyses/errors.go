package analyses

import (
	"errors"
	"net/http"

	"github.com/gavel-labs/gavel/internal/documents"
)

// Domain errors for analysis run operations.
var (
	ErrNotFound  = errors.New("analysis run not found")
	ErrDuplicate = errors.New("analysis run already exists")
	ErrInvalidID = errors.New("invalid identifier")
)

// MapHTTPStatus maps analysis run errors to appropriate HTTP status codes.
// Document errors surfaced while starting a run map through the document
// domain's own taxonomy.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	if errors.Is(err, documents.ErrNotFound) ||
		errors.Is(err, documents.ErrNotText) ||
		errors.Is(err, documents.ErrInvalidFile) {
		return documents.MapHTTPStatus(err)
	}
	return http.StatusInternalServerError
}
