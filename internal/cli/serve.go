package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/blockfall/internal/api"
	"github.com/mcoot/blockfall/internal/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the score API and leaderboard pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := newLogger(cfg, cmd.ErrOrStderr(), slog.LevelInfo)
			if err != nil {
				return err
			}
			defer closeLog()

			// A server records games itself, so it never forwards them
			cfg.ServerURL = ""
			app, err := openApp(logger)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serverCfg := api.DefaultServerConfig()
			serverCfg.Addr = cfg.Addr
			server := api.NewServer(web.NewSite(web.SiteConfig{
				Logger:        logger,
				ScoresService: app.ScoresService,
			}), serverCfg, logger)
			if err := server.Listen(); err != nil {
				return err
			}
			newOutput(cmd).PrintMessage("Serving scores on http://" + server.Addr())

			return ServeUntilDone(ctx, server, logger)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address (env: BLOCKFALL_ADDR)")

	return cmd
}

// ServeUntilDone runs a listening server until it fails or the context
// ends, then shuts it down gracefully
func ServeUntilDone(ctx context.Context, server *api.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
