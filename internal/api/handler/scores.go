package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/blockfall/internal/api/request"
	"github.com/mcoot/blockfall/internal/api/response"
	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/services/scores"
)

// ScoresHandler handles leaderboard endpoints
type ScoresHandler struct {
	scoresService *scores.Service
}

// NewScoresHandler creates a new scores handler
func NewScoresHandler(scoresService *scores.Service) *ScoresHandler {
	return &ScoresHandler{scoresService: scoresService}
}

// List handles GET /api/v1/scores
func (h *ScoresHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, NewInvalidRequestError("limit must be a number"))
			return
		}
		limit = n
	}

	records, err := h.scoresService.Top(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	total, err := h.scoresService.Count(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(records, total))
}

// Get handles GET /api/v1/scores/{id}
func (h *ScoresHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ScoreID(mux.Vars(r)["id"])

	record, err := h.scoresService.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoreFromModel(record))
}

// Create handles POST /api/v1/scores
func (h *ScoresHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	record, err := h.scoresService.Submit(r.Context(), model.ScoreRecord{
		PlayerName:   req.PlayerName,
		BotStrategy:  req.BotStrategy,
		Score:        req.Score,
		LinesCleared: req.LinesCleared,
		Ticks:        req.Ticks,
		BoardWidth:   req.BoardWidth,
		BoardHeight:  req.BoardHeight,
		Seed:         req.Seed,
		EndReason:    model.EndReason(req.EndReason),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ScoreFromModel(record))
}
