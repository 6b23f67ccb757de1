package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/runner"
)

// SSE event names sent to spectators
const (
	EventFrame     = "frame"
	EventGameEvent = "game-event"
)

// Broadcaster publishes a running game to spectators: every rendered
// snapshot as a frame, and every game event as it happens
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Ensure Broadcaster implements Renderer and Listener
var (
	_ runner.Renderer = (*Broadcaster)(nil)
	_ runner.Listener = (*Broadcaster)(nil)
)

// Render broadcasts the snapshot as JSON
func (b *Broadcaster) Render(snap model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	b.hub.BroadcastFrame(string(data))
	return nil
}

// OnEvents broadcasts each event as JSON
func (b *Broadcaster) OnEvents(events []model.Event, _ model.Snapshot) {
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			b.logger.Error("sse failed to encode event",
				slog.String("type", string(ev.Type)),
				slog.Any("error", err))
			continue
		}
		b.hub.BroadcastEvent(EventGameEvent, string(data))
	}
}
