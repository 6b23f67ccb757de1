package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/blockfall/internal/factory"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	loaded, loadErr := LoadConfig()
	if loadErr != nil {
		loaded = &Config{}
	}
	cfg = loaded

	rootCmd := &cobra.Command{
		Use:   "blockfall",
		Short: "A falling-block puzzle game",
		Long: `blockfall is a falling-block puzzle game for the terminal or a desktop window.

Pieces fall one row per tick; complete rows clear for 10 points each, and the
game ends when a new piece has nowhere to go. Finished games are recorded on a
leaderboard kept in SQLite, Redis or a remote blockfall server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			return cfg.Validate()
		},
		SilenceUsage: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: BLOCKFALL_OUTPUT)")
	flags.StringVar(&cfg.StorageType, "storage", cfg.StorageType, "Score storage: sqlite, redis, memory (env: BLOCKFALL_STORAGE)")
	flags.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite score database (env: BLOCKFALL_SQLITE_PATH)")
	flags.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL (env: BLOCKFALL_REDIS_URL)")
	flags.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Remote score server URL (env: BLOCKFALL_SERVER)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error (env: BLOCKFALL_LOG_LEVEL)")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to this file (env: BLOCKFALL_LOG_FILE)")

	// Add subcommands
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// addGameFlags binds the flags shared by commands that start games
func addGameFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&cfg.Width, "width", cfg.Width, "Board width in cells (env: BLOCKFALL_WIDTH)")
	flags.IntVar(&cfg.Height, "height", cfg.Height, "Board height in cells (env: BLOCKFALL_HEIGHT)")
	flags.Float64Var(&cfg.TickRate, "tick-rate", cfg.TickRate, "Ticks per second (env: BLOCKFALL_TICK_RATE)")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Piece sequence seed; 0 picks one (env: BLOCKFALL_SEED)")
	flags.StringVar(&cfg.Player, "player", cfg.Player, "Name recorded with scores (env: BLOCKFALL_PLAYER)")
}

func newOutput(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// openApp wires the application against the configured score storage
func openApp(logger *slog.Logger) (*factory.App, error) {
	return factory.New(cfg.FactoryConfig(logger))
}

// resolveSeed returns seed, or draws a fresh one so every game can be replayed
func resolveSeed(app *factory.App, seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return int64(app.Random.Intn(1<<31-1)) + 1
}
