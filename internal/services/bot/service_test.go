package bot_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blockfall/internal/dependencies/mocks"
	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/services/board"
	"github.com/mcoot/blockfall/internal/services/bot"
	"github.com/mcoot/blockfall/internal/services/catalog"
	"github.com/mcoot/blockfall/internal/services/game"
	"github.com/mcoot/blockfall/internal/services/scoring"
	"github.com/mcoot/blockfall/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
	botService *bot.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
	s.botService = bot.NewService(board.New(), s.mockRandom, testutil.NopLogger())
}

func (s *ServiceSuite) TestNewStrategyKnownNames() {
	for _, name := range model.ValidBotStrategies() {
		strategy, err := s.botService.NewStrategy(name)
		s.Require().NoError(err)
		s.NotNil(strategy)
	}
}

func (s *ServiceSuite) TestNewStrategyUnknownName() {
	_, err := s.botService.NewStrategy("psychic")
	s.ErrorIs(err, model.ErrUnknownStrategy)

	_, err = s.botService.NewPlayer("psychic")
	s.ErrorIs(err, model.ErrUnknownStrategy)
}

func (s *ServiceSuite) TestGreedyPlayerClearsLines() {
	// Only O pieces: a greedy player on an even-width board should clear rows
	player, err := s.botService.NewPlayer(model.BotStrategyGreedy)
	s.Require().NoError(err)
	s.Equal(model.BotStrategyGreedy, player.StrategyName())

	draws := mocks.NewMockRandom()
	for i := 0; i < 400; i++ {
		draws.QueueIntn(3, 0)
	}
	controller, err := game.NewController(
		game.Config{Width: 6, Height: 12},
		catalog.New(draws),
		scoring.New(),
		testutil.NopLogger(),
	)
	s.Require().NoError(err)

	for i := 0; i < 300 && !controller.IsOver(); i++ {
		controller.Tick(player.Poll(controller.Snapshot()))
	}

	s.Greater(controller.Score(), 0)
}
