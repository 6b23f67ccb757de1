package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/blockfall/internal/api"
	"github.com/mcoot/blockfall/internal/api/apierr"
	"github.com/mcoot/blockfall/internal/api/request"
	"github.com/mcoot/blockfall/internal/api/response"
	"github.com/mcoot/blockfall/internal/api/sse"
	"github.com/mcoot/blockfall/internal/factory"
	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T, hub *sse.Hub) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:        testutil.NopLogger(),
		ScoresService: app.ScoresService,
		Hub:           hub,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) submit(t *testing.T, id, name string, lines int) response.Score {
	t.Helper()
	ts.app.MockRandom.QueueString(id)
	rr := ts.request(http.MethodPost, "/api/v1/scores", request.SubmitScoreRequest{
		PlayerName:   name,
		Score:        lines * 10,
		LinesCleared: lines,
		Ticks:        100,
		BoardWidth:   13,
		BoardHeight:  20,
		EndReason:    string(model.EndReasonOverflow),
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var score response.Score
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &score))
	return score
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.submit(t, "aaaaaaaaaa", "alice", 1)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var health response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Scores)
	assert.Equal(t, 0, health.Spectators)
}

func TestSubmitScore(t *testing.T) {
	ts := newTestServer(t, nil)

	score := ts.submit(t, "abcdefghij", "  Alice  ", 3)

	assert.Equal(t, "abcdefghij", score.ID)
	assert.Equal(t, "Alice", score.PlayerName)
	assert.Equal(t, 30, score.Score)
	assert.Equal(t, "overflow", score.EndReason)
	assert.Equal(t, ts.app.MockClock.Now(), score.RecordedAt)
}

func TestSubmitAnonymousScore(t *testing.T) {
	ts := newTestServer(t, nil)

	score := ts.submit(t, "abcdefghij", "", 0)

	assert.Equal(t, "anonymous", score.PlayerName)
}

func TestSubmitRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		body any
		code string
	}{
		{
			name: "malformed body",
			body: "not an object",
			code: apierr.CodeInvalidRequest,
		},
		{
			name: "score does not match lines",
			body: request.SubmitScoreRequest{Score: 999, LinesCleared: 1, BoardWidth: 13, BoardHeight: 20, EndReason: "overflow"},
			code: apierr.CodeInvalidScore,
		},
		{
			name: "unknown end reason",
			body: request.SubmitScoreRequest{BoardWidth: 13, BoardHeight: 20, EndReason: "bored"},
			code: apierr.CodeInvalidScore,
		},
		{
			name: "board too large",
			body: request.SubmitScoreRequest{BoardWidth: 500, BoardHeight: 20, EndReason: "quit"},
			code: apierr.CodeInvalidBoardSize,
		},
		{
			name: "unknown strategy",
			body: request.SubmitScoreRequest{BotStrategy: "psychic", BoardWidth: 13, BoardHeight: 20, EndReason: "quit"},
			code: apierr.CodeUnknownStrategy,
		},
		{
			name: "name too long",
			body: request.SubmitScoreRequest{PlayerName: strings.Repeat("x", 40), BoardWidth: 13, BoardHeight: 20, EndReason: "quit"},
			code: apierr.CodeInvalidPlayerName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)

			rr := ts.request(http.MethodPost, "/api/v1/scores", tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}
}

func TestGetScore(t *testing.T) {
	ts := newTestServer(t, nil)
	created := ts.submit(t, "abcdefghij", "alice", 2)

	rr := ts.request(http.MethodGet, "/api/v1/scores/abcdefghij", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var score response.Score
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &score))
	assert.Equal(t, created, score)
}

func TestGetMissingScore(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/scores/nope", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeScoreNotFound, decodeError(t, rr).Code)
}

func TestListScoresRanksAndLimits(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.submit(t, "aaaaaaaaaa", "low", 1)
	ts.submit(t, "bbbbbbbbbb", "high", 5)
	ts.submit(t, "cccccccccc", "mid", 3)

	rr := ts.request(http.MethodGet, "/api/v1/scores?limit=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var board response.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	assert.Equal(t, 3, board.Total)
	require.Len(t, board.Scores, 2)
	assert.Equal(t, "high", board.Scores[0].PlayerName)
	assert.Equal(t, "mid", board.Scores[1].PlayerName)
}

func TestListScoresEmpty(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/scores", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var board response.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	assert.Empty(t, board.Scores)
	assert.NotNil(t, board.Scores)
	assert.Zero(t, board.Total)
}

func TestListScoresRejectsBadLimit(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/scores?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)

	rr = ts.request(http.MethodGet, "/api/v1/scores?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidLimit, decodeError(t, rr).Code)
}

func TestLiveWithoutGame(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/live", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotStreaming, decodeError(t, rr).Code)
}

func TestLiveStreamsFrames(t *testing.T) {
	hub := sse.NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()
	hub.BroadcastFrame(`{"score":10}`)

	ts := newTestServer(t, hub)
	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/live", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if scanner.Text() == `data: {"score":10}` {
			break
		}
	}
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "event: connected", lines[0])
	assert.Equal(t, "event: frame", lines[len(lines)-2])
	assert.Equal(t, `data: {"score":10}`, lines[len(lines)-1])
}

func TestShutdownEndsLiveStreams(t *testing.T) {
	hub := sse.NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	ts := newTestServer(t, hub)
	cfg := api.DefaultServerConfig()
	cfg.Addr = "127.0.0.1:0"
	server := api.NewServer(ts.handler, cfg, testutil.NopLogger())
	server.RegisterOnShutdown(hub.Close)
	require.NoError(t, server.Listen())

	served := make(chan error, 1)
	go func() { served <- server.Start() }()

	resp, err := http.Get("http://" + server.Addr() + "/api/v1/live")
	require.NoError(t, err)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	require.True(t, scanner.Scan())
	assert.Equal(t, "event: connected", scanner.Text())

	start := time.Now()
	require.NoError(t, server.Shutdown(context.Background()))
	assert.Less(t, time.Since(start), 3*time.Second)
	require.NoError(t, <-served)

	// The stream ends rather than hanging
	for scanner.Scan() {
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/lobbies", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
