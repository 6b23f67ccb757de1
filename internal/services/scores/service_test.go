package scores

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blockfall/internal/dependencies/mocks"
	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/services/scoring"
	"github.com/mcoot/blockfall/internal/storage/memory"
	"github.com/mcoot/blockfall/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = NewService(s.storage, scoring.New(), s.clock, s.random,
		func() string { return "quiet-heron" }, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) finished(score, lines int) model.Snapshot {
	return model.Snapshot{
		Width:        model.DefaultBoardWidth,
		Height:       model.DefaultBoardHeight,
		Score:        score,
		LinesCleared: lines,
		Ticks:        250,
		Phase:        model.PhaseOver,
		EndReason:    model.EndReasonBlocked,
	}
}

// Record tests

func (s *ServiceSuite) TestRecordStoresFinishedGame() {
	s.random.QueueString("abcdefghij")

	record, err := s.service.Record(s.ctx, s.finished(30, 3), "alice", "", 7)

	s.Require().NoError(err)
	s.Equal(model.ScoreID("abcdefghij"), record.ID)
	s.Equal("alice", record.PlayerName)
	s.Equal(30, record.Score)
	s.Equal(3, record.LinesCleared)
	s.Equal(250, record.Ticks)
	s.Equal(int64(7), record.Seed)
	s.Equal(s.clock.Now(), record.RecordedAt)
	s.False(record.IsBot())

	stored, err := s.storage.GetScore(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(record.PlayerName, stored.PlayerName)
}

func (s *ServiceSuite) TestRecordRejectsRunningGame() {
	snap := s.finished(0, 0)
	snap.Phase = model.PhaseRunning

	_, err := s.service.Record(s.ctx, snap, "alice", "", 0)

	s.ErrorIs(err, model.ErrInvalidScore)
}

func (s *ServiceSuite) TestRecordGeneratesNameWhenBlank() {
	s.random.QueueString("id00000001")

	record, err := s.service.Record(s.ctx, s.finished(0, 0), "   ", model.BotStrategyGreedy, 0)

	s.Require().NoError(err)
	s.Equal("quiet-heron", record.PlayerName)
	s.True(record.IsBot())
}

func (s *ServiceSuite) TestRecordRetriesCollidingID() {
	s.random.QueueString("taken00000", "taken00000", "fresh00000")
	_, err := s.service.Record(s.ctx, s.finished(0, 0), "alice", "", 0)
	s.Require().NoError(err)

	record, err := s.service.Record(s.ctx, s.finished(10, 1), "bob", "", 0)

	s.Require().NoError(err)
	s.Equal(model.ScoreID("fresh00000"), record.ID)
}

// Submit validation tests

func (s *ServiceSuite) TestSubmitValidation() {
	valid := *FromSnapshot(s.finished(20, 2), "alice", "", 0)

	tests := []struct {
		name   string
		mutate func(r *model.ScoreRecord)
		err    error
	}{
		{"negative score", func(r *model.ScoreRecord) { r.Score = -10 }, model.ErrInvalidScore},
		{"score not matching lines", func(r *model.ScoreRecord) { r.Score = 25 }, model.ErrInvalidScore},
		{"zero width", func(r *model.ScoreRecord) { r.BoardWidth = 0 }, model.ErrInvalidBoardSize},
		{"huge height", func(r *model.ScoreRecord) { r.BoardHeight = 1000 }, model.ErrInvalidBoardSize},
		{"unknown bot", func(r *model.ScoreRecord) { r.BotStrategy = "psychic" }, model.ErrUnknownStrategy},
		{"missing end reason", func(r *model.ScoreRecord) { r.EndReason = "" }, model.ErrInvalidScore},
		{"long name", func(r *model.ScoreRecord) { r.PlayerName = strings.Repeat("x", model.MaxPlayerNameLength+1) }, model.ErrInvalidPlayerName},
		{"control characters", func(r *model.ScoreRecord) { r.PlayerName = "bad\nname" }, model.ErrInvalidPlayerName},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			r := valid
			tt.mutate(&r)
			_, err := s.service.Submit(s.ctx, r)
			s.ErrorIs(err, tt.err)
		})
	}

	count, err := s.service.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *ServiceSuite) TestSubmitIgnoresCallerIDAndTime() {
	s.random.QueueString("server0001")
	r := *FromSnapshot(s.finished(10, 1), "alice", "", 0)
	r.ID = "client-chosen"
	r.RecordedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)

	record, err := s.service.Submit(s.ctx, r)

	s.Require().NoError(err)
	s.Equal(model.ScoreID("server0001"), record.ID)
	s.Equal(s.clock.Now(), record.RecordedAt)
}

// Leaderboard tests

func (s *ServiceSuite) TestTopOrdersAndLimits() {
	s.random.QueueString("a000000000", "b000000000", "c000000000")
	for _, lines := range []int{1, 3, 2} {
		_, err := s.service.Record(s.ctx, s.finished(lines*10, lines), "", "", 0)
		s.Require().NoError(err)
		s.clock.Advance(time.Minute)
	}

	top, err := s.service.Top(s.ctx, 2)

	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(30, top[0].Score)
	s.Equal(20, top[1].Score)
}

func (s *ServiceSuite) TestTopDefaultLimit() {
	for i := 0; i < DefaultLimit+2; i++ {
		s.random.QueueString(strings.Repeat(string(rune('a'+i)), ScoreIDLength))
		_, err := s.service.Record(s.ctx, s.finished(0, 0), "", "", 0)
		s.Require().NoError(err)
	}

	top, err := s.service.Top(s.ctx, 0)

	s.Require().NoError(err)
	s.Len(top, DefaultLimit)
}

func (s *ServiceSuite) TestTopRejectsBadLimit() {
	_, err := s.service.Top(s.ctx, -1)
	s.ErrorIs(err, model.ErrInvalidLimit)

	_, err = s.service.Top(s.ctx, MaxLimit+1)
	s.ErrorIs(err, model.ErrInvalidLimit)
}

func (s *ServiceSuite) TestGetNotFound() {
	_, err := s.service.Get(s.ctx, "missing")
	s.ErrorIs(err, model.ErrScoreNotFound)
}

func (s *ServiceSuite) TestPetNameHasTwoWords() {
	s.Len(strings.Split(PetName(), "-"), 2)
}
