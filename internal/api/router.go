package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordrush/internal/api/handler"
	"github.com/mcoot/wordrush/internal/api/middleware"
	"github.com/mcoot/wordrush/internal/services/registry"
	"github.com/mcoot/wordrush/internal/storage"
	"github.com/mcoot/wordrush/internal/web/sse"
	"github.com/mcoot/wordrush/internal/web/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Registry   *registry.Registry
	Storage    storage.Storage
	Dictionary handler.WordCounter
	HubManager *sse.HubManager
	WSManager  *ws.Manager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.Registry, cfg.Storage, cfg.HubManager, cfg.WSManager, cfg.Logger)
	resultsHandler := handler.NewResultsHandler(cfg.Storage, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.Dictionary, cfg.Registry)

	// Create middleware
	authMiddleware := middleware.Auth()
	optionalAuthMiddleware := middleware.OptionalAuth()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Health check endpoint (no auth)
	r.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	api.HandleFunc("/results", resultsHandler.Recent).Methods(http.MethodGet)

	// Routes open to anyone who knows the session code
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/join", sessionHandler.Join).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/results", sessionHandler.Results).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/ws", sessionHandler.Socket).Methods(http.MethodGet)

	// Viewer-filtered routes
	sessions.Handle("/{id}", optionalAuthMiddleware(http.HandlerFunc(sessionHandler.Get))).Methods(http.MethodGet)
	sessions.Handle("/{id}/events", optionalAuthMiddleware(http.HandlerFunc(sessionHandler.Events))).Methods(http.MethodGet)

	// Player routes
	sessions.Handle("/{id}/start", authMiddleware(http.HandlerFunc(sessionHandler.Start))).Methods(http.MethodPost)
	sessions.Handle("/{id}/words", authMiddleware(http.HandlerFunc(sessionHandler.SubmitWord))).Methods(http.MethodPost)
	sessions.Handle("/{id}/leave", authMiddleware(http.HandlerFunc(sessionHandler.Leave))).Methods(http.MethodPost)

	return r
}
