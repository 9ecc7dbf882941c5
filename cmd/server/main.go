// Command server runs the scout HTTP service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/scout/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := NewServer(ctx, cfg)
	if err != nil {
		log.Fatal("server init failed: ", err)
	}

	logger := srv.infra.Logger
	logger.Info("scout starting", "version", cfg.Version, "env", cfg.Env())

	if err := srv.Run(ctx, cfg.ShutdownTimeoutDuration()); err != nil {
		logger.Error("scout exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("scout stopped")
}
