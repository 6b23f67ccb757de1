package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show recorded games",
	}

	cmd.AddCommand(newScoresListCmd())
	cmd.AddCommand(newScoresGetCmd())

	return cmd
}

// withBackend opens the score backend for a read-only command
func withBackend(fn func(scoreBackend) error) error {
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

	return fn(newBackend(cfg, app.ScoresService))
}

func newScoresListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(func(backend scoreBackend) error {
				board, err := backend.Top(cmd.Context(), limit)
				if err != nil {
					return err
				}
				newOutput(cmd).Print(board)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of scores to show (1-100)")

	return cmd
}

func newScoresGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one recorded game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(func(backend scoreBackend) error {
				score, err := backend.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				newOutput(cmd).Print(score)
				return nil
			})
		},
	}
}
