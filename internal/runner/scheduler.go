package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/blockfall/internal/dependencies/clock"
	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/services/game"
)

const (
	// DefaultTickRate is the number of game ticks per second
	DefaultTickRate = 5.0
	// MaxTickRate bounds how fast the fixed-tick loop may run
	MaxTickRate = 120.0
)

// Renderer draws a snapshot after each tick
type Renderer interface {
	Render(snap model.Snapshot) error
}

// Listener receives the events emitted during a tick
type Listener interface {
	OnEvents(events []model.Event, snap model.Snapshot)
}

// ListenerFunc adapts a function to the Listener interface
type ListenerFunc func(events []model.Event, snap model.Snapshot)

// OnEvents calls f
func (f ListenerFunc) OnEvents(events []model.Event, snap model.Snapshot) {
	f(events, snap)
}

// Config holds the scheduler configuration
type Config struct {
	TickRate float64 // Ticks per second
}

// DefaultConfig returns the standard five ticks per second
func DefaultConfig() Config {
	return Config{TickRate: DefaultTickRate}
}

// Validate checks the tick rate
func (c Config) Validate() error {
	if c.TickRate <= 0 || c.TickRate > MaxTickRate {
		return fmt.Errorf("%w: %v", model.ErrInvalidTickRate, c.TickRate)
	}
	return nil
}

// Interval returns the time between ticks
func (c Config) Interval() time.Duration {
	return time.Duration(float64(time.Second) / c.TickRate)
}

// Stats records scheduler activity
type Stats struct {
	Ticks        int
	Events       int
	StartedAt    time.Time
	LastTickAt   time.Time
	RenderFrames int
}

// Scheduler drives a game controller at a fixed tick rate, independently of
// how often or how slowly adapters render
type Scheduler struct {
	cfg        Config
	controller game.ControllerInterface
	input      InputSource
	renderers  []Renderer
	listeners  []Listener
	clock      clock.Clock
	logger     *slog.Logger

	last  model.Snapshot
	stats Stats
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithRenderer adds a renderer that is called after every tick
func WithRenderer(r Renderer) Option {
	return func(s *Scheduler) {
		s.renderers = append(s.renderers, r)
	}
}

// WithListener adds a listener for tick events
func WithListener(l Listener) Option {
	return func(s *Scheduler) {
		s.listeners = append(s.listeners, l)
	}
}

// NewScheduler creates a scheduler for a controller
func NewScheduler(
	cfg Config,
	controller game.ControllerInterface,
	input InputSource,
	clk clock.Clock,
	logger *slog.Logger,
	opts ...Option,
) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if input == nil {
		input = NoInput{}
	}

	s := &Scheduler{
		cfg:        cfg,
		controller: controller,
		input:      input,
		clock:      clk,
		logger:     logger.With(slog.String("component", "scheduler")),
		last:       controller.Snapshot(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Step polls input, advances the game one tick, notifies listeners and
// renders the result
func (s *Scheduler) Step() (model.Snapshot, error) {
	intents := s.input.Poll(s.last)
	events := s.controller.Tick(intents)
	snap := s.controller.Snapshot()
	s.last = snap

	s.stats.Ticks++
	s.stats.Events += len(events)
	s.stats.LastTickAt = s.clock.Now()

	if len(events) > 0 {
		for _, l := range s.listeners {
			l.OnEvents(events, snap)
		}
	}
	return snap, s.render(snap)
}

// Run renders the initial frame and then ticks at the configured rate until
// the game ends or the context is cancelled. It returns the final snapshot.
func (s *Scheduler) Run(ctx context.Context) (model.Snapshot, error) {
	s.stats.StartedAt = s.clock.Now()
	if err := s.render(s.last); err != nil {
		return s.last, err
	}

	ticker := s.clock.NewTicker(s.cfg.Interval())
	defer ticker.Stop()

	s.logger.Info("game loop started", slog.Duration("interval", s.cfg.Interval()))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("game loop cancelled", slog.Int("ticks", s.stats.Ticks))
			return s.last, ctx.Err()
		case <-ticker.C():
			snap, err := s.Step()
			if err != nil {
				return snap, err
			}
			if snap.IsOver() {
				s.logger.Info("game loop finished",
					slog.Int("ticks", s.stats.Ticks),
					slog.Int("score", snap.Score),
				)
				return snap, nil
			}
		}
	}
}

// RunUntilOver ticks as fast as possible, without waiting for the clock,
// until the game ends, maxTicks is reached (0 means no limit) or the
// context is cancelled
func (s *Scheduler) RunUntilOver(ctx context.Context, maxTicks int) (model.Snapshot, error) {
	s.stats.StartedAt = s.clock.Now()
	for maxTicks <= 0 || s.stats.Ticks < maxTicks {
		if err := ctx.Err(); err != nil {
			return s.last, err
		}
		snap, err := s.Step()
		if err != nil {
			return snap, err
		}
		if snap.IsOver() {
			return snap, nil
		}
	}
	return s.last, nil
}

func (s *Scheduler) render(snap model.Snapshot) error {
	for _, r := range s.renderers {
		if err := r.Render(snap); err != nil {
			s.logger.Error("render failed", slog.String("error", err.Error()))
			return fmt.Errorf("render: %w", err)
		}
	}
	s.stats.RenderFrames++
	return nil
}

// Last returns the most recent snapshot
func (s *Scheduler) Last() model.Snapshot {
	return s.last
}

// Stats returns a copy of the scheduler statistics
func (s *Scheduler) Stats() Stats {
	return s.stats
}
