package config

import (
	"fmt"
	"os"
	"strconv"
)

// Provider identifiers accepted for ProvidersConfig.Primary.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ProviderConfig holds the credentials and generation settings for a single
// model provider. A provider with an empty APIKey is considered disabled.
type ProviderConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

// Enabled reports whether the provider has credentials.
func (c *ProviderConfig) Enabled() bool {
	return c.APIKey != ""
}

// Merge overwrites non-zero fields from overlay.
func (c *ProviderConfig) Merge(overlay *ProviderConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
}

func (c *ProviderConfig) loadEnv(keys []string, modelKey, temperatureKey string) {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			c.APIKey = v
			break
		}
	}
	if v := os.Getenv(modelKey); v != "" {
		c.Model = v
	}
	if v := os.Getenv(temperatureKey); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = t
		}
	}
}

// ProvidersConfig holds the model provider settings. Primary selects which
// provider is tried first; the other becomes the failover, when configured.
type ProvidersConfig struct {
	Primary string         `toml:"primary"`
	OpenAI  ProviderConfig `toml:"openai"`
	Gemini  ProviderConfig `toml:"gemini"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ProvidersConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay across both providers.
func (c *ProvidersConfig) Merge(overlay *ProvidersConfig) {
	if overlay.Primary != "" {
		c.Primary = overlay.Primary
	}
	c.OpenAI.Merge(&overlay.OpenAI)
	c.Gemini.Merge(&overlay.Gemini)
}

func (c *ProvidersConfig) loadDefaults() {
	if c.Primary == "" {
		c.Primary = ProviderOpenAI
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.1
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.1
	}
}

func (c *ProvidersConfig) loadEnv() {
	if v := os.Getenv("GAVEL_PROVIDER_PRIMARY"); v != "" {
		c.Primary = v
	}

	c.OpenAI.loadEnv(
		[]string{"GAVEL_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"GAVEL_OPENAI_MODEL",
		"GAVEL_OPENAI_TEMPERATURE",
	)
	c.Gemini.loadEnv(
		[]string{"GAVEL_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"GAVEL_GEMINI_MODEL",
		"GAVEL_GEMINI_TEMPERATURE",
	)
}

func (c *ProvidersConfig) validate() error {
	switch c.Primary {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("invalid primary provider: %s", c.Primary)
	}
	return nil
}
