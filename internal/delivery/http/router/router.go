package router

import (
	"net/http"

	"darion/internal/application/access"
	"darion/internal/delivery/http/handler"
	"darion/internal/delivery/http/middleware"
	"darion/internal/infrastructure/metrics"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Sort      *handler.SortHandler
	Assistant *handler.AssistantHandler
	Sync      *handler.SyncHandler
}

// Setup configures all routes for the application
func Setup(handlers Handlers, accessService access.Service, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Middleware helpers
	cors := middleware.CORSFor(middleware.CORSConfig{AllowedOrigins: allowedOrigins})
	authRequired := middleware.Auth(accessService)

	// Chain helper
	chain := func(h http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			h = middlewares[i](h)
		}
		return h
	}

	// ==================
	// Public routes
	// ==================
	mux.HandleFunc("/", cors(handler.Home))
	mux.HandleFunc("/health", cors(handler.Health))
	mux.Handle("/metrics", metrics.Handler())

	// ==================
	// File sorting
	// ==================
	mux.HandleFunc("/api/sort-files", chain(handlers.Sort.Sort, cors, authRequired))
	mux.HandleFunc("/api/sort-files/history", chain(handlers.Sort.History, cors, authRequired))

	// ==================
	// Assistant
	// ==================
	mux.HandleFunc("/api/ai-query", chain(handlers.Assistant.Query, cors, authRequired))
	mux.HandleFunc("/api/conversation/reset", chain(handlers.Assistant.Reset, cors, authRequired))

	// ==================
	// Sync
	// ==================
	mux.HandleFunc("/api/sync/", chain(handlers.Sync.Sync, cors, authRequired))

	return middleware.Logging(middleware.Metrics(mux))
}
