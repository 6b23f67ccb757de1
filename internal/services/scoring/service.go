package scoring

import (
	"sort"

	"github.com/mcoot/blockfall/internal/model"
)

// PointsPerLine is the flat bonus for every cleared row
const PointsPerLine = 10

// Service provides scoring functionality for cleared lines and finished games
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// PointsForLines returns the score awarded for clearing the given number of
// rows in a single lock
func (s *Service) PointsForLines(lines int) int {
	if lines <= 0 {
		return 0
	}
	return lines * PointsPerLine
}

// Rank sorts records into leaderboard order in place
func (s *Service) Rank(records []*model.ScoreRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RanksAbove(records[j])
	})
}
