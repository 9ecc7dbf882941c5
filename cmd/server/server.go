package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/JaimeStill/scout/internal/api"
	"github.com/JaimeStill/scout/internal/config"
	"github.com/JaimeStill/scout/internal/infrastructure"
	"github.com/JaimeStill/scout/pkg/handlers"
	"github.com/JaimeStill/scout/pkg/module"
)

const probeTimeout = 5 * time.Second

// Server owns the infrastructure, the mounted API module, and the listener.
type Server struct {
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, fmt.Errorf("api module: %w", err)
	}

	router := operationalRouter(infra)
	router.Mount(apiModule)

	infra.Logger.Info("server initialized", "addr", cfg.Server.Addr(), "api", apiModule.Prefix())

	return &Server{
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Run starts every subsystem, blocks until ctx is cancelled, then shuts down
// within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			s.infra.Logger.Error("startup failed", "error", err)
			return
		}
		s.infra.Logger.Info("all subsystems ready")
	}()

	<-ctx.Done()
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}

// operationalRouter serves liveness, readiness, and Prometheus scraping outside
// the authenticated API module.
func operationalRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	router.HandleNative("GET /readyz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		failures := infra.Lifecycle.Check(ctx)
		if len(failures) == 0 {
			handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
			return
		}

		checks := make(map[string]string, len(failures))
		for name, err := range failures {
			checks[name] = err.Error()
		}
		handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"checks": checks,
		})
	}))

	router.HandleNative("GET /metrics", infra.Metrics.Handler())

	return router
}
