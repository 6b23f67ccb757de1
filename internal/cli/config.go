package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/blockfall/internal/audio"
	"github.com/mcoot/blockfall/internal/factory"
	"github.com/mcoot/blockfall/internal/model"
	redisstorage "github.com/mcoot/blockfall/internal/storage/redis"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds CLI configuration. Every field can be set from the
// environment and overridden by flags.
type Config struct {
	// Game
	Width    int     `env:"BLOCKFALL_WIDTH" envDefault:"13"`
	Height   int     `env:"BLOCKFALL_HEIGHT" envDefault:"20"`
	TickRate float64 `env:"BLOCKFALL_TICK_RATE" envDefault:"5"`
	Seed     int64   `env:"BLOCKFALL_SEED"`
	Player   string  `env:"BLOCKFALL_PLAYER"`

	// Presentation
	Audio         bool    `env:"BLOCKFALL_AUDIO" envDefault:"true"`
	MusicPath     string  `env:"BLOCKFALL_MUSIC"`
	MusicVolume   float64 `env:"BLOCKFALL_MUSIC_VOLUME" envDefault:"0.5"`
	EffectsVolume float64 `env:"BLOCKFALL_EFFECTS_VOLUME" envDefault:"0.8"`
	Background    string  `env:"BLOCKFALL_BACKGROUND"`

	// Scores
	StorageType   string        `env:"BLOCKFALL_STORAGE" envDefault:"sqlite"`
	SQLitePath    string        `env:"BLOCKFALL_SQLITE_PATH"`
	RedisURL      string        `env:"BLOCKFALL_REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisScoreTTL time.Duration `env:"BLOCKFALL_REDIS_SCORE_TTL"`
	ServerURL     string        `env:"BLOCKFALL_SERVER"` // Remote score server; empty uses local storage

	// Serving
	Addr string `env:"BLOCKFALL_ADDR" envDefault:":8080"`

	// Output
	Output   string `env:"BLOCKFALL_OUTPUT" envDefault:"text"`
	LogLevel string `env:"BLOCKFALL_LOG_LEVEL"` // Empty picks a per-command default
	LogFile  string `env:"BLOCKFALL_LOG_FILE"`
}

// LoadConfig reads the configuration from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = defaultSQLitePath()
	}
	return cfg, nil
}

// Validate checks settings shared by every command
func (c *Config) Validate() error {
	if c.Output != OutputText && c.Output != OutputJSON {
		return fmt.Errorf("invalid output format %q: must be 'text' or 'json'", c.Output)
	}
	switch c.StorageType {
	case factory.StorageTypeMemory, factory.StorageTypeRedis, factory.StorageTypeSQLite:
	default:
		return fmt.Errorf("invalid storage %q: must be 'memory', 'redis' or 'sqlite'", c.StorageType)
	}
	if c.LogLevel != "" {
		if _, err := parseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGame checks the settings used to start games
func (c *Config) ValidateGame() error {
	if c.Width < 1 || c.Width > 100 || c.Height < 1 || c.Height > 100 {
		return fmt.Errorf("%w: %dx%d", model.ErrInvalidBoardSize, c.Width, c.Height)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: %v", model.ErrInvalidTickRate, c.TickRate)
	}
	if c.MusicVolume < 0 || c.MusicVolume > 1 || c.EffectsVolume < 0 || c.EffectsVolume > 1 {
		return errors.New("volumes must be between 0 and 1")
	}
	return nil
}

// FactoryConfig returns the app settings for the configured score storage.
// Games reported to a remote server keep nothing locally.
func (c *Config) FactoryConfig(logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Logger:      logger,
		StorageType: c.StorageType,
		SQLitePath:  c.SQLitePath,
	}
	if c.ServerURL != "" {
		fc.StorageType = factory.StorageTypeMemory
	}
	if fc.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.ScoreTTL = c.RedisScoreTTL
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// AudioConfig returns the audio settings
func (c *Config) AudioConfig() audio.Config {
	return audio.Config{
		Enabled:       c.Audio,
		MusicPath:     c.MusicPath,
		MusicVolume:   c.MusicVolume,
		EffectsVolume: c.EffectsVolume,
	}
}

// HealthURL returns the server to probe, falling back to the local address
func (c *Config) HealthURL() string {
	if c.ServerURL != "" {
		return c.ServerURL
	}
	host := c.Addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "http://" + host
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".blockfall", "scores.db")
	}
	return filepath.Join(home, ".blockfall", "scores.db")
}
