package scores

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	petname "github.com/dustinkirkland/golang-petname"

	"github.com/mcoot/blockfall/internal/dependencies/clock"
	"github.com/mcoot/blockfall/internal/dependencies/random"
	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/services/scoring"
	"github.com/mcoot/blockfall/internal/storage"
)

const (
	// ScoreIDLength is the length of generated score IDs
	ScoreIDLength = 10
	// ScoreIDAlphabet is the characters used in score IDs
	ScoreIDAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"

	// DefaultLimit is the leaderboard size when none is requested
	DefaultLimit = 10
	// MaxLimit bounds a single leaderboard request
	MaxLimit = 100

	// maxBoardDimension mirrors the largest board a game accepts
	maxBoardDimension = 100
)

// NameGenerator produces a display name for players who did not give one
type NameGenerator func() string

// PetName generates names like "brave-otter"
func PetName() string {
	return petname.Generate(2, "-")
}

// Service records finished games and serves the leaderboard
type Service struct {
	storage        storage.Storage
	scoringService *scoring.Service
	clock          clock.Clock
	random         random.Random
	names          NameGenerator
	logger         *slog.Logger
}

// NewService creates a new score Service
func NewService(
	storage storage.Storage,
	scoringService *scoring.Service,
	clock clock.Clock,
	random random.Random,
	names NameGenerator,
	logger *slog.Logger,
) *Service {
	if names == nil {
		names = PetName
	}
	return &Service{
		storage:        storage,
		scoringService: scoringService,
		clock:          clock,
		random:         random,
		names:          names,
		logger:         logger.With(slog.String("component", "scores-service")),
	}
}

// FromSnapshot builds an unsaved record for a finished game
func FromSnapshot(snap model.Snapshot, playerName, botStrategy string, seed int64) *model.ScoreRecord {
	return &model.ScoreRecord{
		PlayerName:   playerName,
		BotStrategy:  botStrategy,
		Score:        snap.Score,
		LinesCleared: snap.LinesCleared,
		Ticks:        snap.Ticks,
		BoardWidth:   snap.Width,
		BoardHeight:  snap.Height,
		Seed:         seed,
		EndReason:    snap.EndReason,
	}
}

// Submit validates a finished game's result, assigns it an ID and a
// timestamp, and stores it. The caller's record is not modified.
func (s *Service) Submit(ctx context.Context, record model.ScoreRecord) (*model.ScoreRecord, error) {
	name, err := s.normalizeName(record.PlayerName)
	if err != nil {
		return nil, err
	}
	record.PlayerName = name

	if err := s.validate(&record); err != nil {
		return nil, err
	}

	id, err := s.newID(ctx)
	if err != nil {
		return nil, err
	}
	record.ID = id
	record.RecordedAt = s.clock.Now()

	if err := s.storage.SaveScore(ctx, &record); err != nil {
		return nil, err
	}

	s.logger.Info("score recorded",
		slog.String("score_id", string(record.ID)),
		slog.String("player", record.PlayerName),
		slog.Int("score", record.Score),
		slog.Int("lines_cleared", record.LinesCleared),
	)
	return &record, nil
}

// Record stores the result of a finished game
func (s *Service) Record(ctx context.Context, snap model.Snapshot, playerName, botStrategy string, seed int64) (*model.ScoreRecord, error) {
	if !snap.IsOver() {
		return nil, fmt.Errorf("%w: game is still running", model.ErrInvalidScore)
	}
	return s.Submit(ctx, *FromSnapshot(snap, playerName, botStrategy, seed))
}

// Get retrieves a single record
func (s *Service) Get(ctx context.Context, id model.ScoreID) (*model.ScoreRecord, error) {
	return s.storage.GetScore(ctx, id)
}

// Top returns the best records. A limit of zero means DefaultLimit.
func (s *Service) Top(ctx context.Context, limit int) ([]*model.ScoreRecord, error) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: %d (must be between 1 and %d)", model.ErrInvalidLimit, limit, MaxLimit)
	}
	return s.storage.ListTopScores(ctx, limit)
}

// Count returns how many records are stored
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.storage.CountScores(ctx)
}

func (s *Service) normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.names(), nil
	}
	if utf8.RuneCountInString(name) > model.MaxPlayerNameLength {
		return "", fmt.Errorf("%w: longer than %d characters", model.ErrInvalidPlayerName, model.MaxPlayerNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: contains control characters", model.ErrInvalidPlayerName)
		}
	}
	return name, nil
}

func (s *Service) validate(r *model.ScoreRecord) error {
	switch {
	case r.Score < 0 || r.LinesCleared < 0 || r.Ticks < 0:
		return fmt.Errorf("%w: negative totals", model.ErrInvalidScore)
	case r.Score != s.scoringService.PointsForLines(r.LinesCleared):
		return fmt.Errorf("%w: score %d does not match %d lines", model.ErrInvalidScore, r.Score, r.LinesCleared)
	case r.BoardWidth < 1 || r.BoardWidth > maxBoardDimension || r.BoardHeight < 1 || r.BoardHeight > maxBoardDimension:
		return fmt.Errorf("%w: %dx%d", model.ErrInvalidBoardSize, r.BoardWidth, r.BoardHeight)
	case r.BotStrategy != "" && !model.IsValidBotStrategy(r.BotStrategy):
		return fmt.Errorf("%w: %q", model.ErrUnknownStrategy, r.BotStrategy)
	case !r.EndReason.IsValid():
		return fmt.Errorf("%w: end reason %q", model.ErrInvalidScore, r.EndReason)
	}
	return nil
}

func (s *Service) newID(ctx context.Context) (model.ScoreID, error) {
	for {
		id := model.ScoreID(s.random.String(ScoreIDLength, ScoreIDAlphabet))
		exists, err := s.storage.ScoreExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
}
