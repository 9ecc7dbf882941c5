// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/scout/internal/config"
	"github.com/JaimeStill/scout/internal/infrastructure"
	"github.com/JaimeStill/scout/pkg/middleware"
	"github.com/JaimeStill/scout/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Middleware runs in registration order: CORS answers preflight requests before
// authentication, and the logger sees every request.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Metrics(runtime.Metrics))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(runtime.Auth.Middleware())

	return m, nil
}
