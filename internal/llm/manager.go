package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Construction errors for the invocation layer.
var (
	ErrNoBackends         = errors.New("no backends configured")
	ErrMissingCredential  = errors.New("credential not configured")
	ErrInvalidRetryPolicy = errors.New("invalid retry policy")
)

// ManagerConfig carries invocation tuning for the Manager.
type ManagerConfig struct {
	// Retry governs per-backend retry behavior.
	Retry RetryPolicy

	// CallTimeout bounds each individual backend attempt. Expiry counts as
	// a connection failure and triggers failover. Zero disables the bound.
	CallTimeout time.Duration
}

// Manager owns the ordered backend list and drives the retry/failover loop.
// The list order is the fixed failover priority; every call walks it from
// the front regardless of which backend served the previous call. Aside
// from that static list the Manager is stateless per call, so it is safe
// for concurrent use by pipeline workers.
type Manager struct {
	backends []Backend
	retry    RetryPolicy
	timeout  time.Duration
	active   string
	logger   *slog.Logger
}

// NewManager creates a Manager over the given backends in priority order
// (primary first). At least one backend is required; running without any
// provider credential is a fatal configuration error.
func NewManager(cfg ManagerConfig, logger *slog.Logger, backends ...Backend) (*Manager, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}
	if err := cfg.Retry.Validate(); err != nil {
		return nil, err
	}

	return &Manager{
		backends: backends,
		retry:    cfg.Retry,
		timeout:  cfg.CallTimeout,
		active:   backends[0].Name(),
		logger:   logger.With("system", "llm"),
	}, nil
}

// ActiveBackend returns the primary configured backend's name. It is
// advisory reporting only, not a runtime cursor.
func (m *Manager) ActiveBackend() string {
	return m.active
}

// InvokeText walks the failover chain for a plain text completion.
func (m *Manager) InvokeText(ctx context.Context, messages []Message) (string, error) {
	result, err := m.run(ctx, func(callCtx context.Context, b Backend) (any, error) {
		return b.InvokeText(callCtx, messages)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// InvokeStructured walks the failover chain for a schema-validated result.
// The returned value is whatever schema.Decode produced; it is fully
// validated or the call failed, with no partial result.
func (m *Manager) InvokeStructured(ctx context.Context, messages []Message, schema Schema) (any, error) {
	return m.run(ctx, func(callCtx context.Context, b Backend) (any, error) {
		raw, err := b.InvokeStructured(callCtx, messages, schema)
		if err != nil {
			return nil, err
		}

		decoded, err := schema.Decode(json.RawMessage(raw))
		if err != nil {
			return nil, NewError(KindValidation, b.Name(), err.Error(), err)
		}

		return decoded, nil
	})
}

// run drives the nested loop: retry within a backend, fail over across
// backends. Rate limits back off before retrying; validation failures retry
// immediately a bounded number of times; every other kind moves to the next
// backend with zero delay.
func (m *Manager) run(ctx context.Context, call func(ctx context.Context, b Backend) (any, error)) (any, error) {
	failures := make([]*Error, 0, len(m.backends))

	for _, b := range m.backends {
		result, failure, err := m.runBackend(ctx, b, call)
		if err != nil {
			return nil, err
		}
		if failure == nil {
			return result, nil
		}

		failures = append(failures, failure)
		m.logger.Warn(
			"backend exhausted, failing over",
			"backend", b.Name(),
			"kind", failure.Kind,
			"error", failure.Message,
		)
	}

	return nil, &AllFailedError{Errors: failures}
}

// runBackend attempts a single backend until success, exhaustion, or a
// non-retryable failure. A nil failure with a nil error means success; a
// non-nil error means the caller's context was cancelled and the whole
// call must abort without failover.
func (m *Manager) runBackend(
	ctx context.Context,
	b Backend,
	call func(ctx context.Context, b Backend) (any, error),
) (any, *Error, error) {
	var last *Error
	rateAttempts := 0
	validationRetries := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		result, err := m.attempt(ctx, b, call)
		if err == nil {
			return result, nil, nil
		}

		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		last = Classify(b.Name(), err)

		switch last.Kind {
		case KindRateLimit:
			rateAttempts++
			if rateAttempts >= m.retry.MaxAttempts {
				return nil, last, nil
			}

			wait := m.retry.Backoff(rateAttempts)
			m.logger.Warn(
				"rate limited, backing off",
				"backend", b.Name(),
				"attempt", rateAttempts,
				"wait", wait,
			)
			if err := sleep(ctx, wait); err != nil {
				return nil, nil, err
			}

		case KindValidation:
			if validationRetries >= m.retry.MaxValidationRetries {
				return nil, last, nil
			}
			validationRetries++
			m.logger.Warn(
				"validation failed, retrying",
				"backend", b.Name(),
				"retry", validationRetries,
				"error", last.Message,
			)

		default:
			return nil, last, nil
		}
	}
}

func (m *Manager) attempt(
	ctx context.Context,
	b Backend,
	call func(ctx context.Context, b Backend) (any, error),
) (any, error) {
	if m.timeout <= 0 {
		return call(ctx, b)
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	result, err := call(callCtx, b)
	if err != nil && callCtx.Err() != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return result, err
}
