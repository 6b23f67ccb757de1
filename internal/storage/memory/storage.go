package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu     sync.RWMutex
	scores map[model.ScoreID]*model.ScoreRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		scores: make(map[model.ScoreID]*model.ScoreRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveScore(ctx context.Context, record *model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scores[record.ID]; ok {
		return model.ErrScoreExists
	}
	stored := *record
	s.scores[record.ID] = &stored
	return nil
}

func (s *Storage) GetScore(ctx context.Context, id model.ScoreID) (*model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.scores[id]
	if !ok {
		return nil, model.ErrScoreNotFound
	}
	out := *record
	return &out, nil
}

func (s *Storage) ScoreExists(ctx context.Context, id model.ScoreID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.scores[id]
	return ok, nil
}

func (s *Storage) ListTopScores(ctx context.Context, limit int) ([]*model.ScoreRecord, error) {
	s.mu.RLock()
	records := make([]*model.ScoreRecord, 0, len(s.scores))
	for _, record := range s.scores {
		out := *record
		records = append(records, &out)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(records, func(a, b *model.ScoreRecord) int {
		switch {
		case a.RanksAbove(b):
			return -1
		case b.RanksAbove(a):
			return 1
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Storage) CountScores(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scores), nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}
