package redis

import (
	"fmt"

	"github.com/mcoot/blockfall/internal/model"
)

// Key prefix for all blockfall data
const keyPrefix = "blockfall"

// scoreKey returns the Redis key for a ScoreRecord
func scoreKey(id model.ScoreID) string {
	return fmt.Sprintf("%s:score:%s", keyPrefix, id)
}

// leaderboardKey returns the Redis key for the sorted set of score IDs
func leaderboardKey() string {
	return fmt.Sprintf("%s:idx:leaderboard", keyPrefix)
}

// leaderboardRank packs score and lines into a sorted set score. Lines are
// capped so they never spill into the score digits.
func leaderboardRank(r *model.ScoreRecord) float64 {
	lines := min(max(r.LinesCleared, 0), maxRankedLines)
	return float64(r.Score)*(maxRankedLines+1) + float64(lines)
}

const maxRankedLines = 99999
