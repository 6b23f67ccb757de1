package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blockfall/internal/api/response"
)

type OutputSuite struct {
	suite.Suite
	out    bytes.Buffer
	errOut bytes.Buffer
}

func TestOutputSuite(t *testing.T) {
	suite.Run(t, new(OutputSuite))
}

func (s *OutputSuite) SetupTest() {
	s.out.Reset()
	s.errOut.Reset()
}

func (s *OutputSuite) output(format string) *Output {
	return NewOutput(format, &s.out, &s.errOut)
}

// Text tests

func (s *OutputSuite) TestLeaderboardText() {
	s.output(OutputText).Print(response.Leaderboard{
		Scores: []response.Score{
			{ID: "abc123", PlayerName: "ada", Score: 40, LinesCleared: 4, BoardWidth: 13, BoardHeight: 20, EndReason: "blocked", RecordedAt: time.Now()},
			{ID: "def456", PlayerName: "bot", BotStrategy: "greedy", Score: 10, LinesCleared: 1, BoardWidth: 6, BoardHeight: 8, EndReason: "overflow", RecordedAt: time.Now()},
		},
		Total: 5,
	})

	text := s.out.String()
	s.Contains(text, "abc123")
	s.Contains(text, "bot [greedy]")
	s.Contains(text, "6x8")
	s.Contains(text, "Showing 2 of 5 games")
}

func (s *OutputSuite) TestEmptyLeaderboardText() {
	s.output(OutputText).Print(response.Leaderboard{Scores: []response.Score{}})

	s.Equal("No games recorded yet.\n", s.out.String())
}

func (s *OutputSuite) TestPlayResultText() {
	s.output(OutputText).Print(PlayResult{
		Score: 30, LinesCleared: 3, Ticks: 120, EndReason: "quit", Seed: 7,
		Recorded: &response.Score{ID: "xyz789", PlayerName: "ada"},
	})

	text := s.out.String()
	s.Contains(text, "GAME OVER")
	s.Contains(text, "Score: 30")
	s.Contains(text, "Ended: quit")
	s.Contains(text, "Seed: 7")
	s.Contains(text, "Recorded as xyz789 for ada")
}

func (s *OutputSuite) TestSimulationText() {
	s.output(OutputText).Print(SimulationReport{
		Strategy: "greedy",
		Games: []SimulatedGame{
			{Game: 1, Seed: 3, Score: 20, LinesCleared: 2, Ticks: 300, EndReason: "blocked", ScoreID: "aaa111"},
			{Game: 2, Seed: 4, Score: 0, Ticks: 10000},
		},
		BestScore: 20,
		MeanScore: 10,
	})

	text := s.out.String()
	s.Contains(text, "aaa111")
	s.Contains(text, "tick limit")
	s.Contains(text, "Best score: 20")
	s.Contains(text, "Mean score: 10.0")
}

// JSON tests

func (s *OutputSuite) TestJSON() {
	s.output(OutputJSON).Print(response.Health{Status: "ok", Scores: 3, Spectators: 1})

	var health response.Health
	s.Require().NoError(json.Unmarshal(s.out.Bytes(), &health))
	s.Equal(response.Health{Status: "ok", Scores: 3, Spectators: 1}, health)
}

// Error tests

func (s *OutputSuite) TestErrorFormats() {
	s.output(OutputText).PrintError(errors.New("boom"))
	s.Contains(s.errOut.String(), "Error: boom")

	s.errOut.Reset()
	s.output(OutputJSON).PrintError(errors.New("boom"))
	var data map[string]map[string]string
	s.Require().NoError(json.Unmarshal(s.errOut.Bytes(), &data))
	s.Equal("boom", data["error"]["message"])
	s.Empty(s.out.String())
}
