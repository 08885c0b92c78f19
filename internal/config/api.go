package config

import (
	"fmt"
	"os"

	"github.com/gavel-labs/gavel/pkg/formatting"
	"github.com/gavel-labs/gavel/pkg/middleware"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "GAVEL_CORS_ENABLED",
	Origins:          "GAVEL_CORS_ORIGINS",
	AllowedMethods:   "GAVEL_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "GAVEL_CORS_ALLOWED_HEADERS",
	AllowCredentials: "GAVEL_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "GAVEL_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "GAVEL_AUTH_ENABLED",
	Issuer:   "GAVEL_AUTH_ISSUER",
	Audience: "GAVEL_AUTH_AUDIENCE",
}

// APIConfig holds API routing, upload, CORS, and auth settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Auth          middleware.AuthConfig `toml:"auth"`
}

func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and auth configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("GAVEL_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("GAVEL_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
