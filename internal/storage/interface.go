package storage

import (
	"context"

	"github.com/mcoot/blockfall/internal/model"
)

// Storage defines the interface for high score persistence
type Storage interface {
	// SaveScore stores a new record. Saving an ID twice fails with
	// model.ErrScoreExists.
	SaveScore(ctx context.Context, record *model.ScoreRecord) error
	GetScore(ctx context.Context, id model.ScoreID) (*model.ScoreRecord, error)
	ScoreExists(ctx context.Context, id model.ScoreID) (bool, error)

	// ListTopScores returns up to limit records in leaderboard order.
	// A limit of zero or less returns every record.
	ListTopScores(ctx context.Context, limit int) ([]*model.ScoreRecord, error)
	CountScores(ctx context.Context) (int, error)

	Close() error
}
