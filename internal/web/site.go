package web

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/blockfall/internal/api"
	"github.com/mcoot/blockfall/internal/api/sse"
	"github.com/mcoot/blockfall/internal/services/scores"
)

// SiteConfig holds configuration for the combined API and web handler
type SiteConfig struct {
	Logger        *slog.Logger
	ScoresService *scores.Service
	Hub           *sse.Hub // Optional live game stream
}

// NewSite serves the JSON API under /api/ and the leaderboard pages
// everywhere else
func NewSite(cfg SiteConfig) http.Handler {
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:        cfg.Logger,
		ScoresService: cfg.ScoresService,
		Hub:           cfg.Hub,
	})
	webRouter := NewRouter(RouterConfig{
		Logger:        cfg.Logger,
		ScoresService: cfg.ScoresService,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)
	return mux
}
