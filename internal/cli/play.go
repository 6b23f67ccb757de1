package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mcoot/blockfall/internal/api"
	"github.com/mcoot/blockfall/internal/api/response"
	"github.com/mcoot/blockfall/internal/api/sse"
	"github.com/mcoot/blockfall/internal/audio"
	"github.com/mcoot/blockfall/internal/factory"
	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/runner"
	"github.com/mcoot/blockfall/internal/services/game"
	"github.com/mcoot/blockfall/internal/services/scores"
	"github.com/mcoot/blockfall/internal/terminal"
	"github.com/mcoot/blockfall/internal/web"
	"github.com/mcoot/blockfall/internal/window"
)

// PlayResult summarises a finished interactive game
type PlayResult struct {
	Score        int             `json:"score"`
	LinesCleared int             `json:"lines_cleared"`
	Ticks        int             `json:"ticks"`
	EndReason    string          `json:"end_reason,omitempty"`
	Seed         int64           `json:"seed"`
	Recorded     *response.Score `json:"recorded,omitempty"`
}

type playOptions struct {
	window   bool
	autoplay string
	spectate string
	noAudio  bool
}

func newPlayCmd() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game",
		Long: `Play a game in the terminal, or in a desktop window with --window.

Controls: arrow keys or WASD to move and rotate, down or S to soft drop,
Q or Esc to quit. With --autoplay a bot plays alongside any key presses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateGame(); err != nil {
				return err
			}
			if opts.noAudio {
				cfg.Audio = false
			}
			return runPlay(cmd, opts)
		},
	}

	addGameFlags(cmd)
	flags := cmd.Flags()
	flags.BoolVar(&opts.window, "window", false, "Play in a desktop window instead of the terminal")
	flags.StringVar(&opts.autoplay, "autoplay", "", "Let a bot play: greedy or random")
	flags.StringVar(&opts.spectate, "spectate", "", "Serve a live view of the game on this address, e.g. :8081")
	flags.BoolVar(&opts.noAudio, "no-audio", false, "Disable music and sound effects")
	flags.StringVar(&cfg.MusicPath, "music", cfg.MusicPath, "Music track to loop: mp3 or wav (env: BLOCKFALL_MUSIC)")
	flags.StringVar(&cfg.Background, "background", cfg.Background, "Window background image (env: BLOCKFALL_BACKGROUND)")

	return cmd
}

func runPlay(cmd *cobra.Command, opts playOptions) error {
	// The terminal owns stdout while the game runs
	logger, closeLog, err := newLogger(cfg, io.Discard, slog.LevelInfo)
	if err != nil {
		return err
	}
	defer closeLog()

	app, err := openApp(logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	seed := resolveSeed(app, cfg.Seed)
	controller, err := app.NewGame(factory.GameOptions{Width: cfg.Width, Height: cfg.Height, Seed: seed})
	if err != nil {
		return err
	}

	keys := runner.NewIntentBuffer()
	input := runner.MultiSource{keys}
	if opts.autoplay != "" {
		botPlayer, err := app.NewBot(opts.autoplay, seed)
		if err != nil {
			return err
		}
		input = append(input, botPlayer)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sound := audio.NewPlayer(cfg.AudioConfig(), logger)
	sound.Start()
	defer sound.Close()

	schedOpts := []runner.Option{runner.WithListener(sound)}
	if opts.spectate != "" {
		broadcaster, err := startSpectating(ctx, app, opts.spectate, logger)
		if err != nil {
			return err
		}
		schedOpts = append(schedOpts, runner.WithRenderer(broadcaster), runner.WithListener(broadcaster))
	}

	var snap model.Snapshot
	if opts.window {
		snap, err = playInWindow(ctx, cancel, app, controller, keys, input, schedOpts, logger)
	} else {
		snap, err = playInTerminal(ctx, app, controller, keys, input, schedOpts, logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	result := PlayResult{
		Score:        snap.Score,
		LinesCleared: snap.LinesCleared,
		Ticks:        snap.Ticks,
		EndReason:    string(snap.EndReason),
		Seed:         seed,
	}

	// Only finished games go on the leaderboard
	if snap.IsOver() {
		record := scores.FromSnapshot(snap, cfg.Player, opts.autoplay, seed)
		recorded, err := newBackend(cfg, app.ScoresService).Submit(context.Background(), record)
		if err != nil {
			newOutput(cmd).PrintError(err)
		} else {
			result.Recorded = &recorded
		}
	}

	newOutput(cmd).Print(result)
	return nil
}

func playInTerminal(
	ctx context.Context,
	app *factory.App,
	controller game.ControllerInterface,
	keys *runner.IntentBuffer,
	input runner.InputSource,
	schedOpts []runner.Option,
	logger *slog.Logger,
) (model.Snapshot, error) {
	ui, err := terminal.Open(logger)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer ui.Close()

	sched, err := app.NewScheduler(runner.Config{TickRate: cfg.TickRate}, controller, input,
		append(schedOpts, runner.WithRenderer(ui))...)
	if err != nil {
		return model.Snapshot{}, err
	}

	go ui.ListenInput(ctx, keys)

	snap, err := sched.Run(ctx)
	if err == nil {
		// Leave the final board up until the player dismisses it
		ui.WaitForQuit(ctx)
	}
	return snap, err
}

func playInWindow(
	ctx context.Context,
	cancel context.CancelFunc,
	app *factory.App,
	controller game.ControllerInterface,
	keys *runner.IntentBuffer,
	input runner.InputSource,
	schedOpts []runner.Option,
	logger *slog.Logger,
) (model.Snapshot, error) {
	win := window.New(cfg.Width, cfg.Height, cfg.Background, keys, logger)

	sched, err := app.NewScheduler(runner.Config{TickRate: cfg.TickRate}, controller, input,
		append(schedOpts, runner.WithRenderer(win))...)
	if err != nil {
		return model.Snapshot{}, err
	}

	type result struct {
		snap model.Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := sched.Run(ctx)
		done <- result{snap, err}
	}()

	// The window owns the main goroutine until it is closed
	winErr := win.Run()
	cancel()
	r := <-done
	if winErr != nil {
		return r.snap, winErr
	}
	return r.snap, r.err
}

// startSpectating serves the live page and stream for the game until ctx ends
func startSpectating(ctx context.Context, app *factory.App, addr string, logger *slog.Logger) (*sse.Broadcaster, error) {
	hub := sse.NewHub(logger)
	go hub.Run()

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = addr
	server := api.NewServer(web.NewSite(web.SiteConfig{
		Logger:        logger,
		ScoresService: app.ScoresService,
		Hub:           hub,
	}), serverCfg, logger)
	server.RegisterOnShutdown(hub.Close)
	if err := server.Listen(); err != nil {
		hub.Close()
		return nil, err
	}

	go func() {
		defer hub.Close()
		if err := ServeUntilDone(ctx, server, logger); err != nil {
			logger.Error("spectator server failed", slog.String("error", err.Error()))
		}
	}()

	return sse.NewBroadcaster(hub, logger), nil
}
