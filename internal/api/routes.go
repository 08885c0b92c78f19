package api

import (
	"net/http"

	"github.com/gavel-labs/gavel/internal/config"
	"github.com/gavel-labs/gavel/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Analyses.Handler().Routes(),
	)
}
