package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mcoot/blockfall/internal/factory"
	"github.com/mcoot/blockfall/internal/runner"
	"github.com/mcoot/blockfall/internal/services/scores"
)

// SimulatedGame is the outcome of one bot game
type SimulatedGame struct {
	Game         int    `json:"game"`
	Seed         int64  `json:"seed"`
	Score        int    `json:"score"`
	LinesCleared int    `json:"lines_cleared"`
	Ticks        int    `json:"ticks"`
	EndReason    string `json:"end_reason,omitempty"`
	ScoreID      string `json:"score_id,omitempty"`
}

// SimulationReport summarises a batch of bot games
type SimulationReport struct {
	Strategy  string          `json:"strategy"`
	Games     []SimulatedGame `json:"games"`
	BestScore int             `json:"best_score"`
	MeanScore float64         `json:"mean_score"`
}

type simulateOptions struct {
	games    int
	strategy string
	maxTicks int
	record   bool
}

func newSimulateCmd() *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run bot games without a display",
		Long: `Run bot games as fast as possible and report their scores.

Game i uses seed+i, so a batch can be replayed exactly by passing the same
--seed again. Games that hit --max-ticks stop without a result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateGame(); err != nil {
				return err
			}
			if opts.games < 1 {
				return fmt.Errorf("games must be at least 1, got %d", opts.games)
			}
			return runSimulate(cmd, opts)
		},
	}

	addGameFlags(cmd)
	flags := cmd.Flags()
	flags.IntVarP(&opts.games, "games", "n", 1, "Number of games to play")
	flags.StringVar(&opts.strategy, "strategy", "greedy", "Bot strategy: greedy or random")
	flags.IntVar(&opts.maxTicks, "max-ticks", 10000, "Stop a game after this many ticks; 0 means no limit")
	flags.BoolVar(&opts.record, "record", false, "Record finished games on the leaderboard")

	return cmd
}

func runSimulate(cmd *cobra.Command, opts simulateOptions) error {
	logger, closeLog, err := newLogger(cfg, io.Discard, slog.LevelWarn)
	if err != nil {
		return err
	}
	defer closeLog()

	app, err := openApp(logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	var backend scoreBackend
	if opts.record {
		backend = newBackend(cfg, app.ScoresService)
	}

	baseSeed := resolveSeed(app, cfg.Seed)
	report := SimulationReport{Strategy: opts.strategy}
	total := 0
	for i := 0; i < opts.games; i++ {
		game, err := simulateGame(cmd.Context(), app, backend, opts, baseSeed+int64(i))
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		game.Game = i + 1
		report.Games = append(report.Games, game)

		total += game.Score
		if game.Score > report.BestScore {
			report.BestScore = game.Score
		}
	}
	report.MeanScore = float64(total) / float64(opts.games)

	newOutput(cmd).Print(report)
	return nil
}

func simulateGame(
	ctx context.Context,
	app *factory.App,
	backend scoreBackend,
	opts simulateOptions,
	seed int64,
) (SimulatedGame, error) {
	controller, err := app.NewGame(factory.GameOptions{Width: cfg.Width, Height: cfg.Height, Seed: seed})
	if err != nil {
		return SimulatedGame{}, err
	}
	bot, err := app.NewBot(opts.strategy, seed)
	if err != nil {
		return SimulatedGame{}, err
	}
	sched, err := app.NewScheduler(runner.Config{TickRate: cfg.TickRate}, controller, bot)
	if err != nil {
		return SimulatedGame{}, err
	}

	snap, err := sched.RunUntilOver(ctx, opts.maxTicks)
	if err != nil {
		return SimulatedGame{}, err
	}

	game := SimulatedGame{
		Seed:         seed,
		Score:        snap.Score,
		LinesCleared: snap.LinesCleared,
		Ticks:        snap.Ticks,
		EndReason:    string(snap.EndReason),
	}
	if backend != nil && snap.IsOver() {
		recorded, err := backend.Submit(ctx, scores.FromSnapshot(snap, cfg.Player, opts.strategy, seed))
		if err != nil {
			return SimulatedGame{}, err
		}
		game.ScoreID = recorded.ID
	}
	return game, nil
}
