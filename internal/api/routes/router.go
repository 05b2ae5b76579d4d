package routes

import (
	"net/http"

	"github.com/alinamichelle/utilify/internal/api/handlers"
	"github.com/alinamichelle/utilify/internal/api/middleware"
	"github.com/alinamichelle/utilify/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	providerHandler *handlers.ProviderHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(providerHandler *handlers.ProviderHandler, metrics *observability.Metrics) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		providerHandler: providerHandler,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Provider resolution endpoint
	r.mux.HandleFunc("GET /api/v1/providers", r.providerHandler.Resolve)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
