package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/distill-api/internal/artifact"
	"github.com/phrazzld/distill-api/internal/config"
	"github.com/phrazzld/distill-api/internal/convert"
	"github.com/phrazzld/distill-api/internal/engine"
	"github.com/phrazzld/distill-api/internal/events"
	"github.com/phrazzld/distill-api/internal/platform/gemini"
	"github.com/phrazzld/distill-api/internal/platform/jsonfile"
	"github.com/phrazzld/distill-api/internal/service"
	"github.com/phrazzld/distill-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger

	// Component implementations
	hub          *events.Hub
	artifacts    *artifact.Store
	converter    convert.Converter
	historyStore store.HistoryStore
	engine       engine.Engine

	// Service interfaces
	processService service.ProcessService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration and logger
// that must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// Progress fan-out hub for WebSocket observers
	app.hub = events.NewHub(logger)

	// Artifact staging for uploaded documents
	var err error
	app.artifacts, err = artifact.NewStore(cfg.Artifact.ScratchDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	// Document conversion is best-effort; a missing converter binary only
	// disables the conversion step.
	app.converter = convert.NewSofficeConverter(cfg.Artifact.ConvertCommand, cfg.Artifact.ScratchDir, logger)
	if app.converter.Available() {
		logger.Info("document converter detected", "command", cfg.Artifact.ConvertCommand)
	} else {
		logger.Warn("document converter not found, uploads will be dispatched unconverted",
			"command", cfg.Artifact.ConvertCommand)
	}

	// Persistent history ledger
	app.historyStore, err = jsonfile.NewJSONFileHistoryStore(cfg.History.FilePath, cfg.History.MaxEntries, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history store: %w", err)
	}
	logger.Info("history ledger initialized",
		"path", cfg.History.FilePath,
		"max_entries", cfg.History.MaxEntries)

	// Content-processing engine
	app.engine, err = gemini.NewGeminiEngine(ctx, logger.With("component", "gemini_engine"), cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize processing engine: %w", err)
	}
	logger.Info("processing engine initialized", "model", cfg.Engine.ModelName)

	// Request orchestrator
	app.processService, err = service.NewProcessService(
		app.engine,
		app.artifacts,
		app.converter,
		app.historyStore,
		app.hub,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create process service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. Staged
// artifacts are released per request, so there is no per-component teardown
// beyond flushing the final log line.
func (app *application) cleanup() {
	app.logger.Info("Application shutdown completed")
}
