// Package sqlite provides a SQLite-backed score storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/storage"
)

//go:embed schema.sql
var schema string

const selectColumns = `id, player_name, bot_strategy, score, lines_cleared, ticks,
	board_width, board_height, seed, end_reason, recorded_at`

// Storage persists score records in SQLite
type Storage struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite database at path and creates the schema
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the SQLite handle
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveScore(ctx context.Context, record *model.ScoreRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (`+selectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(record.ID),
		record.PlayerName,
		record.BotStrategy,
		record.Score,
		record.LinesCleared,
		record.Ticks,
		record.BoardWidth,
		record.BoardHeight,
		record.Seed,
		string(record.EndReason),
		toMillis(record.RecordedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrScoreExists
		}
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

func (s *Storage) GetScore(ctx context.Context, id model.ScoreID) (*model.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM scores WHERE id = ?`, string(id))
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrScoreNotFound
		}
		return nil, fmt.Errorf("get score: %w", err)
	}
	return record, nil
}

func (s *Storage) ScoreExists(ctx context.Context, id model.ScoreID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM scores WHERE id = ?`, string(id)).Scan(&n); err != nil {
		return false, fmt.Errorf("check score: %w", err)
	}
	return n > 0, nil
}

func (s *Storage) ListTopScores(ctx context.Context, limit int) ([]*model.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		// SQLite treats a negative LIMIT as no limit
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM scores
		 ORDER BY score DESC, lines_cleared DESC, recorded_at ASC, id ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	records := []*model.ScoreRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return records, nil
}

func (s *Storage) CountScores(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM scores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*model.ScoreRecord, error) {
	var (
		record     model.ScoreRecord
		id         string
		endReason  string
		recordedAt int64
	)
	if err := row.Scan(
		&id,
		&record.PlayerName,
		&record.BotStrategy,
		&record.Score,
		&record.LinesCleared,
		&record.Ticks,
		&record.BoardWidth,
		&record.BoardHeight,
		&record.Seed,
		&endReason,
		&recordedAt,
	); err != nil {
		return nil, err
	}
	record.ID = model.ScoreID(id)
	record.EndReason = model.EndReason(endReason)
	record.RecordedAt = fromMillis(recordedAt)
	return &record, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
