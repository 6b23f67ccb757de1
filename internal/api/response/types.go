package response

import (
	"time"

	"github.com/mcoot/blockfall/internal/model"
)

// Score represents a recorded game in API responses
type Score struct {
	ID           string    `json:"id"`
	PlayerName   string    `json:"player_name"`
	BotStrategy  string    `json:"bot_strategy,omitempty"`
	Score        int       `json:"score"`
	LinesCleared int       `json:"lines_cleared"`
	Ticks        int       `json:"ticks"`
	BoardWidth   int       `json:"board_width"`
	BoardHeight  int       `json:"board_height"`
	Seed         int64     `json:"seed,omitempty"`
	EndReason    string    `json:"end_reason"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// ScoreFromModel converts a model.ScoreRecord to a response Score
func ScoreFromModel(r *model.ScoreRecord) Score {
	return Score{
		ID:           string(r.ID),
		PlayerName:   r.PlayerName,
		BotStrategy:  r.BotStrategy,
		Score:        r.Score,
		LinesCleared: r.LinesCleared,
		Ticks:        r.Ticks,
		BoardWidth:   r.BoardWidth,
		BoardHeight:  r.BoardHeight,
		Seed:         r.Seed,
		EndReason:    string(r.EndReason),
		RecordedAt:   r.RecordedAt,
	}
}

// Leaderboard is the response for listing top scores
type Leaderboard struct {
	Scores []Score `json:"scores"`
	Total  int     `json:"total"`
}

// LeaderboardFromModel converts ranked records and the overall count
func LeaderboardFromModel(records []*model.ScoreRecord, total int) Leaderboard {
	scores := make([]Score, len(records))
	for i, r := range records {
		scores[i] = ScoreFromModel(r)
	}
	return Leaderboard{Scores: scores, Total: total}
}

// Health is the response for the health endpoint
type Health struct {
	Status     string `json:"status"`
	Scores     int    `json:"scores"`
	Spectators int    `json:"spectators"`
}
