package game

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/services/catalog"
	"github.com/mcoot/blockfall/internal/services/scoring"
)

// MaxBoardDimension bounds either side of the board
const MaxBoardDimension = 100

// Config holds the fixed parameters of a single game
type Config struct {
	Width  int
	Height int
}

// DefaultConfig returns the standard 13x20 game configuration
func DefaultConfig() Config {
	return Config{
		Width:  model.DefaultBoardWidth,
		Height: model.DefaultBoardHeight,
	}
}

// Validate checks the board dimensions
func (c Config) Validate() error {
	if c.Width < 1 || c.Width > MaxBoardDimension || c.Height < 1 || c.Height > MaxBoardDimension {
		return fmt.Errorf("%w: %dx%d", model.ErrInvalidBoardSize, c.Width, c.Height)
	}
	return nil
}

// Controller owns a single game's state and advances it one tick at a time.
// It is not safe for concurrent use; a single runner goroutine drives it.
type Controller struct {
	state          *model.GameState
	catalogService *catalog.Service
	scoringService *scoring.Service
	logger         *slog.Logger
	events         []model.Event
}

// NewController creates a controller with an empty board and two freshly
// spawned pieces: the active piece is drawn first, then the upcoming one
func NewController(
	cfg Config,
	catalogService *catalog.Service,
	scoringService *scoring.Service,
	logger *slog.Logger,
) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		catalogService: catalogService,
		scoringService: scoringService,
		logger:         logger.With(slog.String("component", "game-controller")),
	}
	c.state = &model.GameState{
		Board:    model.NewBoard(cfg.Width, cfg.Height),
		Active:   catalogService.Spawn(cfg.Width),
		Upcoming: catalogService.Spawn(cfg.Width),
		Phase:    model.PhaseRunning,
	}

	c.logger.Info("game created",
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.String("active", string(c.state.Active.Kind)),
		slog.String("upcoming", string(c.state.Upcoming.Kind)),
	)

	return c, nil
}

// Tick advances the game by one step and applies the player's intents.
// It returns the events emitted during the step. Ticking a finished game
// does nothing.
func (c *Controller) Tick(intents model.Intent) []model.Event {
	c.events = nil
	s := c.state

	if s.IsOver() {
		return nil
	}
	s.Ticks++

	// A previous lock reached the top row
	if s.Board.RowOccupied(0) {
		c.end(model.EndReasonOverflow)
		return c.events
	}

	if s.Board.IsValidPosition(s.Active, 0, 1) {
		s.Active.Translate(0, 1)
	} else if !c.lockAndSpawn() {
		return c.events
	}

	c.applyIntents(intents)
	return c.events
}

// lockAndSpawn locks the active piece, clears lines and promotes the
// upcoming piece. Returns false if the game ended.
func (c *Controller) lockAndSpawn() bool {
	s := c.state

	// A piece that cannot descend while still poking above the board has
	// nowhere to go
	if s.Active.AboveBoard() {
		c.end(model.EndReasonBlocked)
		return false
	}

	s.Board.Lock(s.Active)
	c.emit(model.EventPieceLocked, model.PieceLockedPayload{
		Kind:  s.Active.Kind,
		Cells: s.Active.Cells(),
	})

	if lines := s.Board.ClearFullLines(); lines > 0 {
		points := c.scoringService.PointsForLines(lines)
		s.Score += points
		s.LinesCleared += lines
		c.emit(model.EventLinesCleared, model.LinesClearedPayload{
			Lines:  lines,
			Points: points,
			Score:  s.Score,
		})
		c.logger.Debug("lines cleared",
			slog.Int("lines", lines),
			slog.Int("score", s.Score),
		)
	}

	s.Active = s.Upcoming
	s.Upcoming = c.catalogService.Spawn(s.Board.Width)
	c.emit(model.EventPieceSpawned, model.PieceSpawnedPayload{
		Kind:       s.Active.Kind,
		ColorIndex: s.Active.ColorIndex,
	})

	if !s.Board.IsValidPosition(s.Active, 0, 0) {
		c.end(model.EndReasonBlocked)
		return false
	}
	return true
}

// applyIntents applies each requested action at most once, in the order
// left, right, down, rotate, dropping any that would leave the active piece
// in an invalid position
func (c *Controller) applyIntents(intents model.Intent) {
	s := c.state

	if intents.Has(model.IntentQuit) {
		c.end(model.EndReasonQuit)
		return
	}

	if intents.Has(model.IntentMoveLeft) && s.Board.IsValidPosition(s.Active, -1, 0) {
		s.Active.Translate(-1, 0)
	}
	if intents.Has(model.IntentMoveRight) && s.Board.IsValidPosition(s.Active, 1, 0) {
		s.Active.Translate(1, 0)
	}
	if intents.Has(model.IntentSoftDrop) && s.Board.IsValidPosition(s.Active, 0, 1) {
		s.Active.Translate(0, 1)
	}
	// Rotation comes last, checked against the moved position
	if intents.Has(model.IntentRotate) {
		if rotated := s.Active.Rotated(); s.Board.IsValidPosition(rotated, 0, 0) {
			s.Active.Shape = rotated.Shape
		}
	}
}

// end moves the game to its terminal phase; it only takes effect once
func (c *Controller) end(reason model.EndReason) {
	s := c.state
	if s.IsOver() {
		return
	}
	s.Phase = model.PhaseOver
	s.EndReason = reason

	c.emit(model.EventGameOver, model.GameOverPayload{
		Reason:       reason,
		Score:        s.Score,
		LinesCleared: s.LinesCleared,
	})
	c.logger.Info("game over",
		slog.String("reason", string(reason)),
		slog.Int("score", s.Score),
		slog.Int("lines_cleared", s.LinesCleared),
		slog.Int("ticks", s.Ticks),
	)
}

func (c *Controller) emit(eventType model.EventType, payload any) {
	c.events = append(c.events, model.Event{
		Type:    eventType,
		Tick:    c.state.Ticks,
		Payload: payload,
	})
}

// Snapshot returns a deep copy of the current state for rendering
func (c *Controller) Snapshot() model.Snapshot {
	return c.state.Snapshot()
}

// IsOver returns true once the game has ended
func (c *Controller) IsOver() bool {
	return c.state.IsOver()
}

// Score returns the current score
func (c *Controller) Score() int {
	return c.state.Score
}

// ControllerInterface defines the interface for game controller operations
type ControllerInterface interface {
	Tick(intents model.Intent) []model.Event
	Snapshot() model.Snapshot
	IsOver() bool
	Score() int
}

// Ensure Controller implements ControllerInterface
var _ ControllerInterface = (*Controller)(nil)
