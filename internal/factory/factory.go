package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mcoot/blockfall/internal/dependencies/clock"
	"github.com/mcoot/blockfall/internal/dependencies/random"
	"github.com/mcoot/blockfall/internal/runner"
	"github.com/mcoot/blockfall/internal/services/board"
	"github.com/mcoot/blockfall/internal/services/bot"
	"github.com/mcoot/blockfall/internal/services/catalog"
	"github.com/mcoot/blockfall/internal/services/game"
	"github.com/mcoot/blockfall/internal/services/scores"
	"github.com/mcoot/blockfall/internal/services/scoring"
	"github.com/mcoot/blockfall/internal/storage"
	"github.com/mcoot/blockfall/internal/storage/memory"
	redisstorage "github.com/mcoot/blockfall/internal/storage/redis"
	"github.com/mcoot/blockfall/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	BoardService   *board.Service
	ScoringService *scoring.Service
	ScoresService  *scores.Service
	BotService     *bot.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the score backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clock.New(), random.New(), scores.PetName, logger), nil
}

func openStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create score directory: %w", err)
		}
		return sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	names scores.NameGenerator,
	logger *slog.Logger,
) *App {
	boardService := board.New()
	scoringService := scoring.New()
	scoresService := scores.NewService(store, scoringService, clk, rnd, names, logger)
	botService := bot.NewService(boardService, rnd, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Logger:         logger,
		BoardService:   boardService,
		ScoringService: scoringService,
		ScoresService:  scoresService,
		BotService:     botService,
	}
}

// GameOptions describes a single game to start
type GameOptions struct {
	Width  int
	Height int
	// Seed makes piece generation reproducible; zero draws from the app's
	// random source
	Seed int64
}

// NewGame creates a game controller with its own piece catalog
func (a *App) NewGame(opts GameOptions) (*game.Controller, error) {
	return game.NewController(
		game.Config{Width: opts.Width, Height: opts.Height},
		catalog.New(a.pieceRandom(opts.Seed)),
		a.ScoringService,
		a.Logger,
	)
}

// NewBot creates an autoplay player. With a seed, the bot's own random
// choices are reproducible too.
func (a *App) NewBot(strategy string, seed int64) (*bot.Player, error) {
	if seed == 0 {
		return a.BotService.NewPlayer(strategy)
	}
	seeded := bot.NewService(a.BoardService, random.NewSeeded(^seed), a.Logger)
	return seeded.NewPlayer(strategy)
}

// NewScheduler creates a scheduler driving a controller with the app clock
func (a *App) NewScheduler(
	cfg runner.Config,
	controller game.ControllerInterface,
	input runner.InputSource,
	opts ...runner.Option,
) (*runner.Scheduler, error) {
	return runner.NewScheduler(cfg, controller, input, a.Clock, a.Logger, opts...)
}

func (a *App) pieceRandom(seed int64) random.Random {
	if seed == 0 {
		return a.Random
	}
	return random.NewSeeded(seed)
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
