package api

import (
	"net/http"
	"time"

	"github.com/futig/report-engine/internal/api/middleware"
	reportapi "github.com/futig/report-engine/internal/api/report"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(reportHandler *reportapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// A report query runs its generation calls strictly sequentially with a
	// mandatory delay before each, so the timeout must cover many minutes.
	r.Use(chimiddleware.Timeout(30 * time.Minute))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Register routes
	reportapi.RegisterRoutes(r, reportHandler)

	return r
}
