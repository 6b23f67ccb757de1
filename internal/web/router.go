package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/blockfall/internal/services/scores"
	"github.com/mcoot/blockfall/internal/web/handler"
	"github.com/mcoot/blockfall/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger        *slog.Logger
	ScoresService *scores.Service
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Apply global middleware to all routes
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	leaderboardHandler := handler.NewLeaderboardHandler(cfg.ScoresService, cfg.Logger)

	r.HandleFunc("/", leaderboardHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", leaderboardHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/scores/{id}", leaderboardHandler.Score).Methods(http.MethodGet)
	r.HandleFunc("/live", leaderboardHandler.Live).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(leaderboardHandler.NotFound)

	return r
}
