package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies a backend failure for retry and failover decisions.
type Kind string

// Failure kinds. RateLimit is the only kind retried with backoff against
// the same backend. Validation is retried against the same backend a small
// bounded number of times without backoff. Every other kind triggers
// immediate failover to the next backend.
const (
	KindRateLimit  Kind = "rate_limit"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindConnection Kind = "connection"
	KindValidation Kind = "validation"
	KindUnknown    Kind = "unknown"
)

// Error is a classified backend failure. Adapters must surface failures as
// *Error with the originating backend's name; backend-native error types do
// not cross the adapter seam.
type Error struct {
	Kind    Kind
	Backend string
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Backend, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether the failure should be retried with backoff
// against the same backend.
func (e *Error) Retryable() bool {
	return e.Kind == KindRateLimit
}

// NewError creates a classified error for the given backend.
func NewError(kind Kind, backend, message string, cause error) *Error {
	return &Error{Kind: kind, Backend: backend, Message: message, cause: cause}
}

// KindOf extracts the failure kind from an error chain,
// defaulting to KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// AllFailedError aggregates the final error from every configured backend.
// It is returned only when the full failover chain is exhausted; the caller
// never receives a partial or degraded result alongside it.
type AllFailedError struct {
	Errors []*Error
}

func (e *AllFailedError) Error() string {
	var sb strings.Builder
	sb.WriteString("all providers failed")
	for _, be := range e.Errors {
		sb.WriteString("; ")
		sb.WriteString(be.Error())
	}
	return sb.String()
}

// Classify maps a raw SDK or transport error to a classified *Error for the
// named backend. Already-classified errors pass through unchanged. Context
// deadline expiry counts as a connection failure so the manager fails over
// instead of backing off. Unmapped errors default to KindUnknown.
func Classify(backend string, err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindConnection, backend, "call timed out", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return NewError(KindConnection, backend, netErr.Error(), err)
	}

	return NewError(classifyMessage(err.Error()), backend, err.Error(), err)
}

// ClassifyStatus maps an HTTP status code to a failure kind. Falls back to
// message-substring classification when the code is not decisive.
func ClassifyStatus(backend string, status int, err error) *Error {
	var kind Kind
	switch {
	case status == 429:
		kind = KindRateLimit
	case status == 401 || status == 403:
		kind = KindAuth
	case status == 404:
		kind = KindNotFound
	case status == 408 || status >= 500:
		kind = KindConnection
	default:
		kind = classifyMessage(err.Error())
	}
	return NewError(kind, backend, err.Error(), err)
}

func classifyMessage(msg string) Kind {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, "rate limit", "quota", "429"):
		return KindRateLimit
	case containsAny(lower, "authentication", "api key", "unauthorized", "401"):
		return KindAuth
	case containsAny(lower, "not found", "404"):
		return KindNotFound
	case containsAny(lower, "connection", "timeout", "timed out", "503"):
		return KindConnection
	default:
		return KindUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
