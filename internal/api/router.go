package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/blockfall/internal/api/handler"
	"github.com/mcoot/blockfall/internal/api/middleware"
	"github.com/mcoot/blockfall/internal/api/sse"
	"github.com/mcoot/blockfall/internal/services/scores"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	ScoresService *scores.Service
	Hub           *sse.Hub // Optional; set while a local game is being spectated
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	scoresHandler := handler.NewScoresHandler(cfg.ScoresService)
	liveHandler := handler.NewLiveHandler(cfg.Hub)
	healthHandler := handler.NewHealthHandler(cfg.ScoresService, liveHandler)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/scores", scoresHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/scores", scoresHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/scores/{id}", scoresHandler.Get).Methods(http.MethodGet)

	api.HandleFunc("/live", liveHandler.Stream).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)

	return r
}
