package api

import (
	"github.com/JaimeStill/scout/internal/config"
	"github.com/JaimeStill/scout/internal/infrastructure"
	"github.com/JaimeStill/scout/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Match      config.MatchConfig
	Extract    config.ExtractConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		Match:          cfg.Match,
		Extract:        cfg.Extract,
	}
}
