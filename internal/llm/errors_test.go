package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want Kind
	}{
		{"rate limit phrase", "Rate limit exceeded for requests", KindRateLimit},
		{"quota phrase", "insufficient quota remaining", KindRateLimit},
		{"auth phrase", "invalid API key provided", KindAuth},
		{"unauthorized phrase", "request unauthorized", KindAuth},
		{"not found phrase", "model not found", KindNotFound},
		{"connection phrase", "connection refused", KindConnection},
		{"timeout phrase", "request timed out", KindConnection},
		{"unmapped", "something inexplicable happened", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("test", errors.New(tt.msg))
			if got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.msg, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyDeadline(t *testing.T) {
	err := fmt.Errorf("%w: attempt aborted", context.DeadlineExceeded)
	got := Classify("test", err)
	if got.Kind != KindConnection {
		t.Errorf("Classify(deadline).Kind = %v, want KindConnection", got.Kind)
	}
}

func TestClassifyPassthrough(t *testing.T) {
	original := NewError(KindAuth, "openai", "bad key", nil)
	wrapped := fmt.Errorf("invoke: %w", original)

	got := Classify("gemini", wrapped)
	if got != original {
		t.Error("Classify() did not pass through an already-classified error")
	}
	if got.Backend != "openai" {
		t.Errorf("Backend = %q, want originating backend preserved", got.Backend)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Kind
	}{
		{"too many requests", 429, KindRateLimit},
		{"unauthorized", 401, KindAuth},
		{"forbidden", 403, KindAuth},
		{"not found", 404, KindNotFound},
		{"request timeout", 408, KindConnection},
		{"service unavailable", 503, KindConnection},
		{"internal error", 500, KindConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatus("test", tt.status, errors.New("backend error"))
			if got.Kind != tt.want {
				t.Errorf("ClassifyStatus(%d).Kind = %v, want %v", tt.status, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyStatusFallsBackToMessage(t *testing.T) {
	got := ClassifyStatus("test", 400, errors.New("rate limit hit"))
	if got.Kind != KindRateLimit {
		t.Errorf("ClassifyStatus(400).Kind = %v, want message-derived KindRateLimit", got.Kind)
	}
}

func TestErrorRetryable(t *testing.T) {
	if !NewError(KindRateLimit, "a", "m", nil).Retryable() {
		t.Error("rate limit should be retryable")
	}
	for _, kind := range []Kind{KindAuth, KindNotFound, KindConnection, KindValidation, KindUnknown} {
		if NewError(kind, "a", "m", nil).Retryable() {
			t.Errorf("%v should not be retryable", kind)
		}
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewError(KindNotFound, "a", "m", nil))
	if got := KindOf(wrapped); got != KindNotFound {
		t.Errorf("KindOf(wrapped) = %v, want KindNotFound", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want KindUnknown", got)
	}
}

func TestAllFailedErrorMessage(t *testing.T) {
	err := &AllFailedError{Errors: []*Error{
		NewError(KindRateLimit, "openai", "rate limit exceeded", nil),
		NewError(KindAuth, "gemini", "invalid api key", nil),
	}}

	msg := err.Error()
	for _, want := range []string{"all providers failed", "openai", "rate limit exceeded", "gemini", "invalid api key"} {
		if !containsAny(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}
