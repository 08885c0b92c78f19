package llm

import (
	"context"
	"math/rand"
	"time"
)

// RetryPolicy governs retry behavior within a single backend. Backoff applies
// only to rate-limit failures; validation retries are immediate and bounded
// separately so a misbehaving model does not consume backoff budget.
type RetryPolicy struct {
	// MaxAttempts bounds rate-limit attempts per backend, including the first.
	MaxAttempts int

	// MaxValidationRetries bounds additional same-backend attempts after a
	// schema validation failure.
	MaxValidationRetries int

	// InitialBackoff is the wait before the first rate-limit retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the wait after each rate-limit retry.
	BackoffFactor float64

	// JitterFactor randomizes each wait by ±fraction of its value. Zero
	// disables jitter, which keeps tests deterministic.
	JitterFactor float64
}

// DefaultRetryPolicy mirrors the invocation layer's contract: three bounded
// attempts, exponential backoff from one second, capped at sixty.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:          3,
		MaxValidationRetries: 2,
		InitialBackoff:       time.Second,
		MaxBackoff:           60 * time.Second,
		BackoffFactor:        2.0,
		JitterFactor:         0.2,
	}
}

// Validate checks policy bounds.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return ErrInvalidRetryPolicy
	}
	if p.MaxValidationRetries < 0 {
		return ErrInvalidRetryPolicy
	}
	if p.InitialBackoff <= 0 || p.MaxBackoff < p.InitialBackoff {
		return ErrInvalidRetryPolicy
	}
	if p.BackoffFactor < 1.0 {
		return ErrInvalidRetryPolicy
	}
	return nil
}

// Backoff returns the wait duration before retrying the given 1-based
// attempt. Pure aside from jitter: attempt 1 waits InitialBackoff, each
// subsequent attempt multiplies by BackoffFactor up to MaxBackoff.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * p.BackoffFactor)
		if d >= p.MaxBackoff {
			d = p.MaxBackoff
			break
		}
	}

	if p.JitterFactor > 0 {
		jitter := (rand.Float64()*2 - 1) * p.JitterFactor
		d = time.Duration(float64(d) * (1.0 + jitter))
	}

	return d
}

// sleep waits for the given duration or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
