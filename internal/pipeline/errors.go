package pipeline

import (
	"errors"
	"net/http"
)

// Domain errors for pipeline execution. Per-clause classification and risk
// failures are absorbed as fallback records and never surface here; these
// cover the fatal stages where no clause list can be produced.
var (
	ErrAnalyzeFailed = errors.New("document analysis failed")
	ErrSplitFailed   = errors.New("clause splitting failed")
	ErrEmptyDocument = errors.New("document text is empty")
)

// MapHTTPStatus maps pipeline errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyDocument) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrAnalyzeFailed) || errors.Is(err, ErrSplitFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
