package api

import (
	"github.com/gavel-labs/gavel/internal/config"
	"github.com/gavel-labs/gavel/internal/infrastructure"
	"github.com/gavel-labs/gavel/internal/pipeline"
)

// Runtime extends Infrastructure with a module-scoped logger and the
// assembled pipeline runtime that analysis runs execute against.
type Runtime struct {
	*infrastructure.Infrastructure
	Pipeline *pipeline.Runtime
}

// NewRuntime creates an API runtime from the application infrastructure.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Manager:   infra.Manager,
			Prompts:   infra.Prompts,
		},
		Pipeline: &pipeline.Runtime{
			Invoker:     infra.Manager,
			Prompts:     infra.Prompts,
			Logger:      logger,
			Concurrency: cfg.Pipeline.Concurrency,
		},
	}
}
