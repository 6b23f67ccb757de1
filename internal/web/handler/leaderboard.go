package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/presentation"
	"github.com/mcoot/blockfall/internal/services/scores"
	"github.com/mcoot/blockfall/internal/web/templates"
)

// LiveStreamPath is where the API serves the spectator stream
const LiveStreamPath = "/api/v1/live"

// LeaderboardHandler serves the leaderboard pages
type LeaderboardHandler struct {
	scoresService *scores.Service
	logger        *slog.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(scoresService *scores.Service, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		scoresService: scoresService,
		logger:        logger.With(slog.String("component", "web-leaderboard")),
	}
}

// Home renders the top scores
func (h *LeaderboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	limit := scores.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.renderError(w, r, http.StatusBadRequest, "Bad request", "The limit must be a number.")
			return
		}
		limit = n
	}

	records, err := h.scoresService.Top(r.Context(), limit)
	if errors.Is(err, model.ErrInvalidLimit) {
		h.renderError(w, r, http.StatusBadRequest, "Bad request", "The limit must be between 1 and 100.")
		return
	}
	if err != nil {
		h.renderInternalError(w, r, err)
		return
	}
	total, err := h.scoresService.Count(r.Context())
	if err != nil {
		h.renderInternalError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, templates.Leaderboard(templates.LeaderboardData{
		PageData: templates.PageData{Title: "Leaderboard"},
		Scores:   records,
		Total:    total,
		Limit:    limit,
	}))
}

// Score renders a single recorded game
func (h *LeaderboardHandler) Score(w http.ResponseWriter, r *http.Request) {
	id := model.ScoreID(mux.Vars(r)["id"])

	record, err := h.scoresService.Get(r.Context(), id)
	if errors.Is(err, model.ErrScoreNotFound) {
		h.renderError(w, r, http.StatusNotFound, "Not found", "No game was recorded with that ID.")
		return
	}
	if err != nil {
		h.renderInternalError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, templates.Score(templates.ScoreData{
		PageData: templates.PageData{Title: "Game " + string(record.ID)},
		Score:    record,
	}))
}

// Live renders the spectator page; the page itself connects to the stream
func (h *LeaderboardHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, templates.Live(templates.LiveData{
		PageData:  templates.PageData{Title: "Live"},
		StreamURL: LiveStreamPath,
		Palette:   presentation.CSSPalette(),
	}))
}

// NotFound renders the 404 page for unknown routes
func (h *LeaderboardHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Not found", "That page does not exist.")
}

func (h *LeaderboardHandler) renderInternalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("page failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	h.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "Please try again later.")
}

func (h *LeaderboardHandler) renderError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	h.render(w, r, status, templates.Error(templates.ErrorData{
		PageData: templates.PageData{Title: title},
		Message:  message,
	}))
}

func (h *LeaderboardHandler) render(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("render failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}
}
