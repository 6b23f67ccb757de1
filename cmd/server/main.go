package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/blockfall/internal/api"
	"github.com/mcoot/blockfall/internal/cli"
	"github.com/mcoot/blockfall/internal/factory"
	"github.com/mcoot/blockfall/internal/web"
)

func main() {
	// JSON logs go to stderr so stdout stays free for output
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Read BLOCKFALL_* settings from the environment
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	// The server is the score store, so it never forwards
	cfg.ServerURL = ""

	app, err := factory.New(cfg.FactoryConfig(logger))
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.Addr
	server := api.NewServer(web.NewSite(web.SiteConfig{
		Logger:        logger,
		ScoresService: app.ScoresService,
	}), serverConfig, logger)
	if err := server.Listen(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.ServeUntilDone(ctx, server, logger)
}
