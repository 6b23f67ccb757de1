package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/blockfall/internal/factory"
	"github.com/mcoot/blockfall/internal/web"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	env        []string
}

func newCLIRunner(t *testing.T, env ...string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "blockfall-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/blockfall")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		env:        env,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{"--output", "json"}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), r.env...)
	var stdout strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stdout
	err := cmd.Run()
	return stdout.String(), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Create application
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	server := &http.Server{
		Addr: addr,
		Handler: web.NewSite(web.SiteConfig{
			Logger:        logger,
			ScoresService: app.ScoresService,
		}),
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type scoreResponse struct {
	ID           string `json:"id"`
	PlayerName   string `json:"player_name"`
	BotStrategy  string `json:"bot_strategy"`
	Score        int    `json:"score"`
	LinesCleared int    `json:"lines_cleared"`
	Seed         int64  `json:"seed"`
	EndReason    string `json:"end_reason"`
}

type leaderboardResponse struct {
	Scores []scoreResponse `json:"scores"`
	Total  int             `json:"total"`
}

type simulationResponse struct {
	Strategy string `json:"strategy"`
	Games    []struct {
		Game      int    `json:"game"`
		Seed      int64  `json:"seed"`
		Score     int    `json:"score"`
		EndReason string `json:"end_reason"`
		ScoreID   string `json:"score_id"`
	} `json:"games"`
	BestScore int `json:"best_score"`
}

func recordedIDs(sim simulationResponse) []string {
	var ids []string
	for _, g := range sim.Games {
		if g.ScoreID != "" {
			ids = append(ids, g.ScoreID)
		}
	}
	return ids
}

func TestCLI_HealthCheck(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()

	cli := newCLIRunner(t)

	output, err := cli.run("--server", server.addr, "health")
	require.NoError(t, err, "output: %s", output)

	var health struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &health))
	assert.Equal(t, "ok", health.Status)
}

func TestCLI_SimulateRecordsToSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scores.db")
	cli := newCLIRunner(t,
		"BLOCKFALL_STORAGE=sqlite",
		"BLOCKFALL_SQLITE_PATH="+dbPath,
		"BLOCKFALL_SERVER=",
	)

	output, err := cli.run("simulate",
		"--games", "3", "--strategy", "random", "--seed", "11",
		"--width", "6", "--height", "8", "--max-ticks", "5000",
		"--record", "--player", "e2e")
	require.NoError(t, err, "output: %s", output)

	var sim simulationResponse
	require.NoError(t, json.Unmarshal([]byte(output), &sim))
	require.Len(t, sim.Games, 3)
	assert.Equal(t, "random", sim.Strategy)
	assert.Equal(t, []int64{11, 12, 13}, []int64{sim.Games[0].Seed, sim.Games[1].Seed, sim.Games[2].Seed})
	ids := recordedIDs(sim)
	require.NotEmpty(t, ids)

	// Scores survive the process in the database file
	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	output, err = cli.run("scores", "list", "--limit", "10")
	require.NoError(t, err, "output: %s", output)

	var board leaderboardResponse
	require.NoError(t, json.Unmarshal([]byte(output), &board))
	assert.Equal(t, len(ids), board.Total)
	require.NotEmpty(t, board.Scores)
	assert.Equal(t, sim.BestScore, board.Scores[0].Score)
	assert.Equal(t, "e2e", board.Scores[0].PlayerName)

	output, err = cli.run("scores", "get", ids[0])
	require.NoError(t, err, "output: %s", output)

	var score scoreResponse
	require.NoError(t, json.Unmarshal([]byte(output), &score))
	assert.Equal(t, ids[0], score.ID)
	assert.Equal(t, "random", score.BotStrategy)
	assert.NotEmpty(t, score.EndReason)
}

func TestCLI_SimulateIsReproducible(t *testing.T) {
	cli := newCLIRunner(t, "BLOCKFALL_STORAGE=memory", "BLOCKFALL_SERVER=")

	args := []string{"simulate", "--games", "2", "--strategy", "greedy", "--seed", "5",
		"--width", "8", "--height", "10", "--max-ticks", "2000"}

	first, err := cli.run(args...)
	require.NoError(t, err, "output: %s", first)
	second, err := cli.run(args...)
	require.NoError(t, err, "output: %s", second)

	assert.JSONEq(t, first, second)
}

func TestCLI_RemoteScores(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()

	cli := newCLIRunner(t, "BLOCKFALL_STORAGE=memory")

	output, err := cli.run("--server", server.addr, "simulate",
		"--games", "2", "--strategy", "random", "--seed", "3",
		"--width", "6", "--height", "8", "--record")
	require.NoError(t, err, "output: %s", output)

	var sim simulationResponse
	require.NoError(t, json.Unmarshal([]byte(output), &sim))
	ids := recordedIDs(sim)
	require.NotEmpty(t, ids)

	output, err = cli.run("--server", server.addr, "scores", "list")
	require.NoError(t, err, "output: %s", output)

	var board leaderboardResponse
	require.NoError(t, json.Unmarshal([]byte(output), &board))
	assert.Equal(t, len(ids), board.Total)

	resp, err := http.Get(server.addr + "/scores/" + ids[0])
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCLI_ErrorHandling(t *testing.T) {
	server := startTestServer(t)
	defer server.shutdown()

	cli := newCLIRunner(t, "BLOCKFALL_STORAGE=memory")

	t.Run("unknown score", func(t *testing.T) {
		output, err := cli.run("--server", server.addr, "scores", "get", "nosuchscore")
		assert.Error(t, err)
		assert.Contains(t, output, "SCORE_NOT_FOUND")
	})

	t.Run("unknown strategy", func(t *testing.T) {
		output, err := cli.run("simulate", "--strategy", "psychic")
		assert.Error(t, err)
		assert.Contains(t, output, "psychic")
	})

	t.Run("bad board size", func(t *testing.T) {
		_, err := cli.run("simulate", "--width", "0")
		assert.Error(t, err)
	})

	t.Run("bad output format", func(t *testing.T) {
		cmd := exec.Command(cli.binaryPath, "--output", "yaml", "scores", "list")
		cmd.Env = append(os.Environ(), cli.env...)
		output, err := cmd.CombinedOutput()
		assert.Error(t, err)
		assert.Contains(t, string(output), "invalid output format")
	})
}
