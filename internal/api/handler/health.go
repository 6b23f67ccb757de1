package handler

import (
	"net/http"

	"github.com/mcoot/blockfall/internal/api/response"
	"github.com/mcoot/blockfall/internal/services/scores"
)

// HealthHandler reports service status
type HealthHandler struct {
	scoresService *scores.Service
	live          *LiveHandler
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(scoresService *scores.Service, live *LiveHandler) *HealthHandler {
	return &HealthHandler{scoresService: scoresService, live: live}
}

// Check handles GET /api/v1/health. Storage failures are reported as errors
// so probes notice an unreachable backend.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	count, err := h.scoresService.Count(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Health{
		Status:     "ok",
		Scores:     count,
		Spectators: h.live.Spectators(),
	})
}
