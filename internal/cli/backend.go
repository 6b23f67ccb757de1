package cli

import (
	"context"

	"github.com/mcoot/blockfall/internal/api/request"
	"github.com/mcoot/blockfall/internal/api/response"
	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/services/scores"
)

// scoreBackend is where the CLI reads and records scores: the local
// storage, or a remote score server
type scoreBackend interface {
	Top(ctx context.Context, limit int) (response.Leaderboard, error)
	Get(ctx context.Context, id string) (response.Score, error)
	Submit(ctx context.Context, record *model.ScoreRecord) (response.Score, error)
}

type localBackend struct {
	scores *scores.Service
}

func (b *localBackend) Top(ctx context.Context, limit int) (response.Leaderboard, error) {
	records, err := b.scores.Top(ctx, limit)
	if err != nil {
		return response.Leaderboard{}, err
	}
	total, err := b.scores.Count(ctx)
	if err != nil {
		return response.Leaderboard{}, err
	}
	return response.LeaderboardFromModel(records, total), nil
}

func (b *localBackend) Get(ctx context.Context, id string) (response.Score, error) {
	record, err := b.scores.Get(ctx, model.ScoreID(id))
	if err != nil {
		return response.Score{}, err
	}
	return response.ScoreFromModel(record), nil
}

func (b *localBackend) Submit(ctx context.Context, record *model.ScoreRecord) (response.Score, error) {
	saved, err := b.scores.Submit(ctx, *record)
	if err != nil {
		return response.Score{}, err
	}
	return response.ScoreFromModel(saved), nil
}

type remoteBackend struct {
	client *Client
}

func (b *remoteBackend) Top(ctx context.Context, limit int) (response.Leaderboard, error) {
	return b.client.TopScores(ctx, limit)
}

func (b *remoteBackend) Get(ctx context.Context, id string) (response.Score, error) {
	return b.client.GetScore(ctx, id)
}

func (b *remoteBackend) Submit(ctx context.Context, record *model.ScoreRecord) (response.Score, error) {
	return b.client.SubmitScore(ctx, request.SubmitScoreRequest{
		PlayerName:   record.PlayerName,
		BotStrategy:  record.BotStrategy,
		Score:        record.Score,
		LinesCleared: record.LinesCleared,
		Ticks:        record.Ticks,
		BoardWidth:   record.BoardWidth,
		BoardHeight:  record.BoardHeight,
		Seed:         record.Seed,
		EndReason:    string(record.EndReason),
	})
}

// newBackend picks the remote server when one is configured
func newBackend(cfg *Config, scoresService *scores.Service) scoreBackend {
	if cfg.ServerURL != "" {
		return &remoteBackend{client: NewClient(cfg.ServerURL)}
	}
	return &localBackend{scores: scoresService}
}
