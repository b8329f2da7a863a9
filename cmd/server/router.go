package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/distill-api/internal/api"
	apiMiddleware "github.com/phrazzld/distill-api/internal/api/middleware"
	"github.com/phrazzld/distill-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	processHandler := api.NewProcessHandler(app.processService)
	historyHandler := api.NewHistoryHandler(app.historyStore)
	progressHandler := api.NewProgressHandler(app.hub, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Content submission endpoints
		r.Post("/process/text", processHandler.ProcessText)
		r.Post("/process/file", processHandler.ProcessFile)

		// History ledger endpoints
		r.Get("/history", historyHandler.GetHistory)
		r.Delete("/history", historyHandler.ClearHistory)

		// Progress observer endpoint
		r.Get("/ws/progress", progressHandler.StreamProgress)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, api.HealthResponse{
			Status:  "ok",
			Message: "distill-api is running",
		})
	})

	return r
}
