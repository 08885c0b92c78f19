package llm

import (
	"context"
	"encoding/json"
)

// Backend is the uniform adapter contract for one configured provider.
// Implementations own all request/response shape translation for their
// provider and surface failures exclusively as classified *Error values.
//
// A backend is considered available purely because its credential was
// present at construction; no network probe occurs, and a bad credential
// surfaces on the first real call.
type Backend interface {
	// Name identifies the backend in logs and error reports.
	Name() string

	// InvokeText sends the transcript and returns the raw text reply.
	InvokeText(ctx context.Context, messages []Message) (string, error)

	// InvokeStructured sends the transcript with a response schema attached
	// and returns the raw JSON payload. Schema decoding and validation is
	// the manager's responsibility so validation retries stay inside the
	// failover loop.
	InvokeStructured(ctx context.Context, messages []Message, schema Schema) (json.RawMessage, error)
}
