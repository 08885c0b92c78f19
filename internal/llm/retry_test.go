package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  RetryPolicy
		wantErr bool
	}{
		{"defaults", DefaultRetryPolicy(), false},
		{"zero attempts", RetryPolicy{MaxAttempts: 0, InitialBackoff: time.Second, MaxBackoff: time.Minute, BackoffFactor: 2}, true},
		{"negative validation retries", RetryPolicy{MaxAttempts: 1, MaxValidationRetries: -1, InitialBackoff: time.Second, MaxBackoff: time.Minute, BackoffFactor: 2}, true},
		{"zero initial backoff", RetryPolicy{MaxAttempts: 1, InitialBackoff: 0, MaxBackoff: time.Minute, BackoffFactor: 2}, true},
		{"max below initial", RetryPolicy{MaxAttempts: 1, InitialBackoff: time.Minute, MaxBackoff: time.Second, BackoffFactor: 2}, true},
		{"shrinking factor", RetryPolicy{MaxAttempts: 1, InitialBackoff: time.Second, MaxBackoff: time.Minute, BackoffFactor: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRetryPolicy) {
				t.Errorf("Validate() error = %v, want ErrInvalidRetryPolicy", err)
			}
		})
	}
}

func TestBackoffGrowth(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts:    5,
		InitialBackoff: time.Second,
		MaxBackoff:     5 * time.Second,
		BackoffFactor:  2.0,
		JitterFactor:   0, // deterministic
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 5 * time.Second}, // capped
		{5, 5 * time.Second},
	}

	for _, tt := range tests {
		if got := policy.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     time.Minute,
		BackoffFactor:  2.0,
		JitterFactor:   0.2,
	}

	lo := time.Duration(float64(time.Second) * 0.8)
	hi := time.Duration(float64(time.Second) * 1.2)
	for range 50 {
		got := policy.Backoff(1)
		if got < lo || got > hi {
			t.Fatalf("Backoff(1) = %v, outside jitter bounds [%v, %v]", got, lo, hi)
		}
	}
}

func TestSleepCancellable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleep(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("sleep() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("sleep() took %v after cancellation", elapsed)
	}
}
