// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/storage"
)

// Suite runs the common storage tests against the backend returned by New
type Suite struct {
	suite.Suite
	New func(t *testing.T) storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.New(s.T())
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

// Base time for records; millisecond precision survives every backend
var baseTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// Record builds a score record recorded minutes after the base time
func Record(id string, score, lines, minutes int) *model.ScoreRecord {
	return &model.ScoreRecord{
		ID:           model.ScoreID(id),
		PlayerName:   "player-" + id,
		Score:        score,
		LinesCleared: lines,
		Ticks:        100 + score,
		BoardWidth:   model.DefaultBoardWidth,
		BoardHeight:  model.DefaultBoardHeight,
		EndReason:    model.EndReasonBlocked,
		RecordedAt:   baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}

func (s *Suite) save(records ...*model.ScoreRecord) {
	for _, r := range records {
		s.Require().NoError(s.Storage.SaveScore(s.Ctx, r))
	}
}

func (s *Suite) ids(records []*model.ScoreRecord) []model.ScoreID {
	out := make([]model.ScoreID, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// Save and get tests

func (s *Suite) TestSaveAndGetScore() {
	record := Record("abc", 40, 4, 0)
	record.BotStrategy = model.BotStrategyGreedy
	record.Seed = 42
	s.save(record)

	got, err := s.Storage.GetScore(s.Ctx, "abc")
	s.Require().NoError(err)
	s.Equal(record.ID, got.ID)
	s.Equal(record.PlayerName, got.PlayerName)
	s.Equal(model.BotStrategyGreedy, got.BotStrategy)
	s.Equal(40, got.Score)
	s.Equal(4, got.LinesCleared)
	s.Equal(record.Ticks, got.Ticks)
	s.Equal(model.DefaultBoardWidth, got.BoardWidth)
	s.Equal(model.DefaultBoardHeight, got.BoardHeight)
	s.Equal(int64(42), got.Seed)
	s.Equal(model.EndReasonBlocked, got.EndReason)
	s.True(record.RecordedAt.Equal(got.RecordedAt))
}

func (s *Suite) TestGetScoreNotFound() {
	_, err := s.Storage.GetScore(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrScoreNotFound)
}

func (s *Suite) TestSaveDuplicateFails() {
	s.save(Record("abc", 10, 1, 0))

	err := s.Storage.SaveScore(s.Ctx, Record("abc", 20, 2, 1))

	s.ErrorIs(err, model.ErrScoreExists)
	got, err := s.Storage.GetScore(s.Ctx, "abc")
	s.Require().NoError(err)
	s.Equal(10, got.Score)
}

func (s *Suite) TestScoreExists() {
	s.save(Record("abc", 10, 1, 0))

	exists, err := s.Storage.ScoreExists(s.Ctx, "abc")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.Storage.ScoreExists(s.Ctx, "other")
	s.Require().NoError(err)
	s.False(exists)
}

// Leaderboard tests

func (s *Suite) TestListTopScoresOrdering() {
	s.save(
		Record("low", 10, 1, 0),
		Record("high", 50, 5, 1),
		Record("tie-more-lines", 30, 4, 2),
		Record("tie-late", 30, 3, 4),
		Record("tie-early", 30, 3, 3),
	)

	records, err := s.Storage.ListTopScores(s.Ctx, 0)

	s.Require().NoError(err)
	s.Equal([]model.ScoreID{"high", "tie-more-lines", "tie-early", "tie-late", "low"}, s.ids(records))
}

func (s *Suite) TestListTopScoresLimit() {
	for i := 0; i < 5; i++ {
		s.save(Record(fmt.Sprintf("r%d", i), i*10, i, i))
	}

	records, err := s.Storage.ListTopScores(s.Ctx, 2)

	s.Require().NoError(err)
	s.Equal([]model.ScoreID{"r4", "r3"}, s.ids(records))
}

func (s *Suite) TestListTopScoresLimitKeepsEarliestTie() {
	s.save(
		Record("late", 20, 2, 5),
		Record("early", 20, 2, 1),
		Record("middle", 20, 2, 3),
	)

	records, err := s.Storage.ListTopScores(s.Ctx, 1)

	s.Require().NoError(err)
	s.Equal([]model.ScoreID{"early"}, s.ids(records))
}

func (s *Suite) TestListTopScoresEmpty() {
	records, err := s.Storage.ListTopScores(s.Ctx, 10)

	s.Require().NoError(err)
	s.Empty(records)
}

func (s *Suite) TestCountScores() {
	count, err := s.Storage.CountScores(s.Ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	s.save(Record("a", 10, 1, 0), Record("b", 20, 2, 1))

	count, err = s.Storage.CountScores(s.Ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *Suite) TestReturnedRecordsAreCopies() {
	s.save(Record("abc", 10, 1, 0))

	got, err := s.Storage.GetScore(s.Ctx, "abc")
	s.Require().NoError(err)
	got.Score = 999

	again, err := s.Storage.GetScore(s.Ctx, "abc")
	s.Require().NoError(err)
	s.Equal(10, again.Score)
}
