// Package infrastructure provides core service initialization for application startup.
// It assembles the shared systems every domain module depends on: logging, metrics,
// database, blob storage, authentication, and the model client.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/scout/internal/config"
	"github.com/JaimeStill/scout/internal/gemini"
	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/database"
	"github.com/JaimeStill/scout/pkg/lifecycle"
	"github.com/JaimeStill/scout/pkg/metrics"
	"github.com/JaimeStill/scout/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Database  database.System
	Storage   storage.System
	Auth      *auth.Authenticator
	Gemini    gemini.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	m := metrics.New()

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	authn, err := auth.New(ctx, &cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}

	client, err := gemini.New(ctx, &cfg.Gemini, m, logger)
	if err != nil {
		return nil, fmt.Errorf("gemini init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Metrics:   m,
		Database:  db,
		Storage:   store,
		Auth:      authn,
		Gemini:    client,
	}, nil
}

// Start registers database and storage hooks with the lifecycle coordinator.
// The database registers its own readiness probe.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
