package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Records are stored as JSON strings and ranked in a sorted set.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveScore(ctx context.Context, record *model.ScoreRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	created, err := s.client.SetNX(ctx, scoreKey(record.ID), data, s.cfg.ScoreTTL).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrScoreExists
	}

	return s.client.ZAdd(ctx, leaderboardKey(), redis.Z{
		Score:  leaderboardRank(record),
		Member: string(record.ID),
	}).Err()
}

func (s *Storage) GetScore(ctx context.Context, id model.ScoreID) (*model.ScoreRecord, error) {
	data, err := s.client.Get(ctx, scoreKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrScoreNotFound
		}
		return nil, err
	}

	var record model.ScoreRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) ScoreExists(ctx context.Context, id model.ScoreID) (bool, error) {
	n, err := s.client.Exists(ctx, scoreKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) ListTopScores(ctx context.Context, limit int) ([]*model.ScoreRecord, error) {
	var records []*model.ScoreRecord
	// Each pass that finds expired records removes them and fetches again,
	// so the window refills with live records
	for {
		ids, err := s.rankedIDs(ctx, limit)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []*model.ScoreRecord{}, nil
		}

		var expired []any
		records, expired, err = s.loadRecords(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(expired) == 0 {
			break
		}
		if err := s.client.ZRem(ctx, leaderboardKey(), expired...).Err(); err != nil {
			return nil, err
		}
	}

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

// loadRecords fetches the records for ids, reporting members whose record
// has expired but whose leaderboard entry has not
func (s *Storage) loadRecords(ctx context.Context, ids []string) ([]*model.ScoreRecord, []any, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = scoreKey(model.ScoreID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, err
	}

	records := make([]*model.ScoreRecord, 0, len(values))
	var expired []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var record model.ScoreRecord
		if err := json.Unmarshal([]byte(str), &record); err != nil {
			return nil, nil, err
		}
		records = append(records, &record)
	}
	return records, expired, nil
}

// rankedIDs returns the leaderboard members for the top limit ranks. The
// sorted set cannot order by time, so every member tied with the last
// included rank comes back too and the caller settles the order.
func (s *Storage) rankedIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return s.client.ZRevRange(ctx, leaderboardKey(), 0, -1).Result()
	}

	cutoff, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), int64(limit-1), int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(cutoff) == 0 {
		return s.client.ZRevRange(ctx, leaderboardKey(), 0, -1).Result()
	}

	return s.client.ZRevRangeByScore(ctx, leaderboardKey(), &redis.ZRangeBy{
		Min: strconv.FormatFloat(cutoff[0].Score, 'f', -1, 64),
		Max: "+inf",
	}).Result()
}

// CountScores counts leaderboard members whose record is still live,
// removing the ones that have expired
func (s *Storage) CountScores(ctx context.Context) (int, error) {
	ids, err := s.client.ZRange(ctx, leaderboardKey(), 0, -1).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	pipe := s.client.Pipeline()
	checks := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		checks[i] = pipe.Exists(ctx, scoreKey(model.ScoreID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	var expired []any
	for i, check := range checks {
		if check.Val() == 0 {
			expired = append(expired, ids[i])
		}
	}
	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, leaderboardKey(), expired...).Err(); err != nil {
			return 0, err
		}
	}
	return len(ids) - len(expired), nil
}
