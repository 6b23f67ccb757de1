package bot

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/blockfall/internal/dependencies/random"
	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/services/board"
)

// Service creates autoplay players from named strategies
type Service struct {
	boardService *board.Service
	random       random.Random
	logger       *slog.Logger
}

// NewService creates a new bot Service
func NewService(boardService *board.Service, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		boardService: boardService,
		random:       rnd,
		logger:       logger.With(slog.String("component", "bot-service")),
	}
}

// NewStrategy builds a fresh strategy instance by name
func (s *Service) NewStrategy(name string) (Strategy, error) {
	switch name {
	case model.BotStrategyRandom:
		return NewRandomStrategy(s.random), nil
	case model.BotStrategyGreedy:
		return NewGreedyStrategy(s.boardService, DefaultWeights()), nil
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownStrategy, name)
	}
}

// NewPlayer creates an autoplay player for the named strategy
func (s *Service) NewPlayer(name string) (*Player, error) {
	strategy, err := s.NewStrategy(name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("bot player created", slog.String("strategy", name))
	return &Player{name: name, strategy: strategy}, nil
}

// Player feeds a strategy's choices to the game loop as player input
type Player struct {
	name     string
	strategy Strategy
}

// StrategyName returns the name of the strategy driving this player
func (p *Player) StrategyName() string {
	return p.name
}

// Poll asks the strategy for the next tick's intents
func (p *Player) Poll(last model.Snapshot) model.Intent {
	return p.strategy.ChooseIntents(last)
}
