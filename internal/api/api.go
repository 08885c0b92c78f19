// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gavel-labs/gavel/internal/config"
	"github.com/gavel-labs/gavel/internal/infrastructure"
	"github.com/gavel-labs/gavel/pkg/middleware"
	"github.com/gavel-labs/gavel/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	if cfg.API.Auth.Enabled {
		auth, err := middleware.Auth(ctx, &cfg.API.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth middleware: %w", err)
		}
		m.Use(auth)
	}

	return m, nil
}
