package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gavel-labs/gavel/internal/llm"
)

// PipelineConfig holds pipeline execution and model retry settings.
type PipelineConfig struct {
	Concurrency          int     `toml:"concurrency"`
	CallTimeout          string  `toml:"call_timeout"`
	MaxAttempts          int     `toml:"max_attempts"`
	MaxValidationRetries int     `toml:"max_validation_retries"`
	InitialBackoff       string  `toml:"initial_backoff"`
	MaxBackoff           string  `toml:"max_backoff"`
	BackoffFactor        float64 `toml:"backoff_factor"`
	JitterFactor         float64 `toml:"jitter_factor"`
	PromptDir            string  `toml:"prompt_dir"`
}

// CallTimeoutDuration returns CallTimeout as a time.Duration.
func (c *PipelineConfig) CallTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.CallTimeout)
	return d
}

// RetryPolicy maps the finalized settings onto the invocation layer's policy.
func (c *PipelineConfig) RetryPolicy() llm.RetryPolicy {
	initial, _ := time.ParseDuration(c.InitialBackoff)
	max, _ := time.ParseDuration(c.MaxBackoff)

	return llm.RetryPolicy{
		MaxAttempts:          c.MaxAttempts,
		MaxValidationRetries: c.MaxValidationRetries,
		InitialBackoff:       initial,
		MaxBackoff:           max,
		BackoffFactor:        c.BackoffFactor,
		JitterFactor:         c.JitterFactor,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.CallTimeout != "" {
		c.CallTimeout = overlay.CallTimeout
	}
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.MaxValidationRetries != 0 {
		c.MaxValidationRetries = overlay.MaxValidationRetries
	}
	if overlay.InitialBackoff != "" {
		c.InitialBackoff = overlay.InitialBackoff
	}
	if overlay.MaxBackoff != "" {
		c.MaxBackoff = overlay.MaxBackoff
	}
	if overlay.BackoffFactor != 0 {
		c.BackoffFactor = overlay.BackoffFactor
	}
	if overlay.JitterFactor != 0 {
		c.JitterFactor = overlay.JitterFactor
	}
	if overlay.PromptDir != "" {
		c.PromptDir = overlay.PromptDir
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	if c.CallTimeout == "" {
		c.CallTimeout = "2m"
	}

	policy := llm.DefaultRetryPolicy()
	if c.MaxAttempts == 0 {
		c.MaxAttempts = policy.MaxAttempts
	}
	if c.MaxValidationRetries == 0 {
		c.MaxValidationRetries = policy.MaxValidationRetries
	}
	if c.InitialBackoff == "" {
		c.InitialBackoff = policy.InitialBackoff.String()
	}
	if c.MaxBackoff == "" {
		c.MaxBackoff = policy.MaxBackoff.String()
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = policy.BackoffFactor
	}
	if c.JitterFactor == 0 {
		c.JitterFactor = policy.JitterFactor
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv("GAVEL_PIPELINE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := os.Getenv("GAVEL_PIPELINE_CALL_TIMEOUT"); v != "" {
		c.CallTimeout = v
	}
	if v := os.Getenv("GAVEL_PIPELINE_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxAttempts = n
		}
	}
	if v := os.Getenv("GAVEL_PIPELINE_PROMPT_DIR"); v != "" {
		c.PromptDir = v
	}
}

func (c *PipelineConfig) validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency: %d", c.Concurrency)
	}
	if _, err := time.ParseDuration(c.CallTimeout); err != nil {
		return fmt.Errorf("invalid call_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.InitialBackoff); err != nil {
		return fmt.Errorf("invalid initial_backoff: %w", err)
	}
	if _, err := time.ParseDuration(c.MaxBackoff); err != nil {
		return fmt.Errorf("invalid max_backoff: %w", err)
	}
	if err := c.RetryPolicy().Validate(); err != nil {
		return fmt.Errorf("retry policy: %w", err)
	}
	return nil
}
