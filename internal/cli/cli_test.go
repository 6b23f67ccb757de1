package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blockfall/internal/api"
	"github.com/mcoot/blockfall/internal/api/response"
	"github.com/mcoot/blockfall/internal/factory"
	"github.com/mcoot/blockfall/internal/testutil"
	"github.com/mcoot/blockfall/internal/web"
)

type CommandSuite struct {
	suite.Suite
	app    *factory.App
	server *httptest.Server
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandSuite))
}

func (s *CommandSuite) SetupTest() {
	s.T().Setenv("BLOCKFALL_STORAGE", "memory")
	s.T().Setenv("BLOCKFALL_SERVER", "")
	s.T().Setenv("BLOCKFALL_LOG_FILE", "")

	app, err := factory.New(factory.Config{Logger: testutil.NopLogger()})
	s.Require().NoError(err)
	s.app = app
	s.server = httptest.NewServer(web.NewSite(web.SiteConfig{
		Logger:        testutil.NopLogger(),
		ScoresService: app.ScoresService,
	}))
}

func (s *CommandSuite) TearDownTest() {
	s.server.Close()
	_ = s.app.Close()
}

// execute runs the CLI with args and returns stdout and stderr
func (s *CommandSuite) execute(args ...string) (string, string, error) {
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (s *CommandSuite) simulate(args ...string) SimulationReport {
	out, errOut, err := s.execute(append([]string{"--output", "json", "simulate"}, args...)...)
	s.Require().NoError(err, errOut)

	var report SimulationReport
	s.Require().NoError(json.Unmarshal([]byte(out), &report))
	return report
}

// Simulate tests

func (s *CommandSuite) TestSimulateReport() {
	report := s.simulate("--games", "3", "--strategy", "random", "--seed", "21",
		"--width", "6", "--height", "8")

	s.Equal("random", report.Strategy)
	s.Require().Len(report.Games, 3)
	total := 0
	for i, g := range report.Games {
		s.Equal(i+1, g.Game)
		s.Equal(int64(21+i), g.Seed)
		s.NotEmpty(g.EndReason)
		s.Empty(g.ScoreID)
		s.LessOrEqual(g.Score, report.BestScore)
		total += g.Score
	}
	s.InDelta(float64(total)/3, report.MeanScore, 0.001)
}

func (s *CommandSuite) TestSimulateIsReproducible() {
	args := []string{"--games", "2", "--seed", "8", "--width", "8", "--height", "10", "--max-ticks", "1500"}

	s.Equal(s.simulate(args...), s.simulate(args...))
}

func (s *CommandSuite) TestSimulateStopsAtMaxTicks() {
	report := s.simulate("--games", "1", "--seed", "4", "--max-ticks", "3")

	s.Require().Len(report.Games, 1)
	s.Equal(3, report.Games[0].Ticks)
	s.Empty(report.Games[0].EndReason)
}

func (s *CommandSuite) TestSimulateRecordsToServer() {
	report := s.simulate("--server", s.server.URL, "--games", "2", "--strategy", "random",
		"--seed", "6", "--width", "6", "--height", "8", "--record", "--player", "tester")

	var ids []string
	for _, g := range report.Games {
		s.Require().NotEmpty(g.ScoreID)
		ids = append(ids, g.ScoreID)
	}

	out, errOut, err := s.execute("--output", "json", "--server", s.server.URL, "scores", "list")
	s.Require().NoError(err, errOut)
	var board response.Leaderboard
	s.Require().NoError(json.Unmarshal([]byte(out), &board))
	s.Equal(2, board.Total)
	s.Equal(report.BestScore, board.Scores[0].Score)
	s.Equal("tester", board.Scores[0].PlayerName)

	out, errOut, err = s.execute("--output", "json", "--server", s.server.URL, "scores", "get", ids[0])
	s.Require().NoError(err, errOut)
	var score response.Score
	s.Require().NoError(json.Unmarshal([]byte(out), &score))
	s.Equal(ids[0], score.ID)
	s.Equal("random", score.BotStrategy)
}

func (s *CommandSuite) TestSimulateRejectsBadInput() {
	_, _, err := s.execute("simulate", "--games", "0")
	s.ErrorContains(err, "games must be at least 1")

	_, _, err = s.execute("simulate", "--strategy", "psychic")
	s.ErrorContains(err, "unknown bot strategy")

	_, _, err = s.execute("simulate", "--height", "500")
	s.ErrorContains(err, "board")
}

// Scores tests

func (s *CommandSuite) TestScoresListTextOutput() {
	s.simulate("--server", s.server.URL, "--strategy", "random", "--seed", "2",
		"--width", "6", "--height", "8", "--record", "--player", "ada")

	out, errOut, err := s.execute("--server", s.server.URL, "scores", "list")

	s.Require().NoError(err, errOut)
	s.Contains(out, "PLAYER")
	s.Contains(out, "ada [random]")
}

func (s *CommandSuite) TestScoresGetMissing() {
	_, _, err := s.execute("--server", s.server.URL, "scores", "get", "missing")

	var remote *RemoteError
	s.Require().ErrorAs(err, &remote)
	s.Equal(404, remote.Status)
	s.Equal("SCORE_NOT_FOUND", remote.Code)
}

func (s *CommandSuite) TestScoresLocalMemoryStartsEmpty() {
	out, errOut, err := s.execute("--output", "json", "scores", "list")

	s.Require().NoError(err, errOut)
	var board response.Leaderboard
	s.Require().NoError(json.Unmarshal([]byte(out), &board))
	s.Equal(0, board.Total)
	s.Empty(board.Scores)
}

// Health tests

func (s *CommandSuite) TestHealth() {
	out, errOut, err := s.execute("--server", s.server.URL, "health")

	s.Require().NoError(err, errOut)
	s.Contains(out, "Status: ok")
	s.Contains(out, "Scores: 0")
}

func (s *CommandSuite) TestHealthUnreachable() {
	_, _, err := s.execute("--server", "http://127.0.0.1:1", "health")

	s.ErrorContains(err, "request failed")
}

// Root tests

func (s *CommandSuite) TestInvalidGlobalFlags() {
	_, _, err := s.execute("--output", "yaml", "scores", "list")
	s.ErrorContains(err, "invalid output format")

	_, _, err = s.execute("--log-level", "shouty", "scores", "list")
	s.ErrorContains(err, "invalid log level")
}

// Serve tests

func (s *CommandSuite) TestServeUntilDoneShutsDownOnCancel() {
	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = "127.0.0.1:0"
	server := api.NewServer(web.NewSite(web.SiteConfig{
		Logger:        testutil.NopLogger(),
		ScoresService: s.app.ScoresService,
	}), serverCfg, testutil.NopLogger())
	s.Require().NoError(server.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeUntilDone(ctx, server, testutil.NopLogger())
	}()

	resp, err := http.Get("http://" + server.Addr() + "/api/v1/health")
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.FailNow("server did not shut down")
	}
}
