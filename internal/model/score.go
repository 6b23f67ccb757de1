package model

import "time"

// ScoreID uniquely identifies a recorded game result
type ScoreID string

const (
	// MaxPlayerNameLength bounds the display name stored with a score
	MaxPlayerNameLength = 32
)

// ScoreRecord is the persisted result of a finished game
type ScoreRecord struct {
	ID           ScoreID   `json:"id"`
	PlayerName   string    `json:"player_name"`
	BotStrategy  string    `json:"bot_strategy,omitempty"` // Empty for human players
	Score        int       `json:"score"`
	LinesCleared int       `json:"lines_cleared"`
	Ticks        int       `json:"ticks"`
	BoardWidth   int       `json:"board_width"`
	BoardHeight  int       `json:"board_height"`
	Seed         int64     `json:"seed,omitempty"`
	EndReason    EndReason `json:"end_reason"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// IsBot returns true if the game was played by an autoplay strategy
func (r *ScoreRecord) IsBot() bool {
	return r.BotStrategy != ""
}

// RanksAbove orders records for leaderboards: higher score first, then more
// lines, then the earlier record
func (r *ScoreRecord) RanksAbove(other *ScoreRecord) bool {
	if r.Score != other.Score {
		return r.Score > other.Score
	}
	if r.LinesCleared != other.LinesCleared {
		return r.LinesCleared > other.LinesCleared
	}
	return r.RecordedAt.Before(other.RecordedAt)
}
