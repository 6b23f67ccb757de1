package handler

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/mcoot/blockfall/internal/api/apierr"
	"github.com/mcoot/blockfall/internal/api/sse"
)

// LiveHandler streams the locally running game to spectators
type LiveHandler struct {
	hub     *sse.Hub
	counter atomic.Int64
}

// NewLiveHandler creates a new live handler. A nil hub means nothing is
// being streamed.
func NewLiveHandler(hub *sse.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

// Stream handles GET /api/v1/live
func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		WriteError(w, apierr.NewNotStreamingError())
		return
	}
	id := "spectator-" + strconv.FormatInt(h.counter.Add(1), 10)
	sse.ServeSSE(w, r, h.hub, id)
}

// Spectators returns the number of connected spectators
func (h *LiveHandler) Spectators() int {
	if h.hub == nil {
		return 0
	}
	return h.hub.ClientCount()
}
