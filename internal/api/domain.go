package api

import (
	"github.com/gavel-labs/gavel/internal/analyses"
	"github.com/gavel-labs/gavel/internal/documents"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Analyses  analyses.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
	)

	analysesSystem := analyses.New(
		runtime.Database.Connection(),
		docsSystem,
		runtime.Pipeline,
		runtime.Lifecycle.Context(),
		runtime.Logger,
	)

	return &Domain{
		Documents: docsSystem,
		Analyses:  analysesSystem,
	}
}
