// Package main implements the entry point for the distill-api server,
// which accepts content-processing requests, forwards them to the AI
// engine, and streams progress to WebSocket observers.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/distill-api/internal/config"
	"github.com/phrazzld/distill-api/internal/platform/logger"
)

// main is the entry point for the distill-api server. It initializes
// configuration and logging, wires the application dependencies, and
// starts the HTTP server.
func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, sets up application components, and runs the
// server until shutdown. Split from main so failures return errors instead
// of exiting directly.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up structured logging using the configured log level
	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
