// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, model backends)
// that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gavel-labs/gavel/internal/config"
	"github.com/gavel-labs/gavel/internal/llm"
	"github.com/gavel-labs/gavel/internal/prompts"
	"github.com/gavel-labs/gavel/pkg/database"
	"github.com/gavel-labs/gavel/pkg/lifecycle"
	"github.com/gavel-labs/gavel/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, file storage, model invocation, and prompts.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Manager   *llm.Manager
	Prompts   *prompts.Store
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	manager, err := NewManager(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("model manager init failed: %w", err)
	}

	promptStore, err := prompts.NewStore(cfg.Pipeline.PromptDir, logger)
	if err != nil {
		return nil, fmt.Errorf("prompt store init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Manager:   manager,
		Prompts:   promptStore,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

// NewManager constructs the failover chain from the provider config. The
// primary provider leads the chain; any other configured provider follows.
func NewManager(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*llm.Manager, error) {
	var primary, secondary llm.Backend

	if cfg.Providers.OpenAI.Enabled() {
		backend, err := llm.NewOpenAIBackend(
			cfg.Providers.OpenAI.APIKey,
			cfg.Providers.OpenAI.Model,
			float32(cfg.Providers.OpenAI.Temperature),
		)
		if err != nil {
			return nil, fmt.Errorf("openai: %w", err)
		}
		primary = backend
	}

	if cfg.Providers.Gemini.Enabled() {
		backend, err := llm.NewGeminiBackend(
			ctx,
			cfg.Providers.Gemini.APIKey,
			cfg.Providers.Gemini.Model,
			float32(cfg.Providers.Gemini.Temperature),
		)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		if cfg.Providers.Primary == config.ProviderGemini {
			primary, secondary = backend, primary
		} else {
			secondary = backend
		}
	}

	backends := make([]llm.Backend, 0, 2)
	for _, b := range []llm.Backend{primary, secondary} {
		if b != nil {
			backends = append(backends, b)
		}
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no provider configured: set an OpenAI or Gemini API key")
	}

	managerCfg := llm.ManagerConfig{
		Retry:       cfg.Pipeline.RetryPolicy(),
		CallTimeout: cfg.Pipeline.CallTimeoutDuration(),
	}
	return llm.NewManager(managerCfg, logger, backends...)
}
