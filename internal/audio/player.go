package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/runner"
)

// SampleRate is the speaker output rate
const SampleRate = beep.SampleRate(44100)

// Config holds the audio settings
type Config struct {
	Enabled       bool
	MusicPath     string  // Optional mp3 or wav track, looped
	MusicVolume   float64 // 0..1
	EffectsVolume float64 // 0..1
}

// DefaultConfig plays effects and no music
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		MusicVolume:   0.5,
		EffectsVolume: 0.8,
	}
}

// Player plays music and reacts to game events with sound effects
type Player struct {
	mu      sync.Mutex
	cfg     Config
	mixer   *beep.Mixer
	music   *beep.Ctrl
	track   beep.StreamSeekCloser
	started bool
	logger  *slog.Logger
}

// NewPlayer creates a player; nothing is audible until Start
func NewPlayer(cfg Config, logger *slog.Logger) *Player {
	return &Player{
		cfg:    cfg,
		mixer:  &beep.Mixer{},
		logger: logger.With(slog.String("component", "audio")),
	}
}

// Ensure Player implements Listener
var _ runner.Listener = (*Player)(nil)

// Start opens the speaker and begins the music. Audio is optional, so a
// missing device or unreadable track is logged and the game plays on silently.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled || p.started {
		return
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		p.logger.Warn("audio unavailable", slog.String("error", err.Error()))
		return
	}
	p.started = true

	if p.cfg.MusicPath != "" {
		track, format, err := DecodeMusic(p.cfg.MusicPath)
		if err != nil {
			p.logger.Warn("music not loaded",
				slog.String("path", p.cfg.MusicPath),
				slog.String("error", err.Error()),
			)
		} else {
			p.track = track
			p.music = &beep.Ctrl{Streamer: MusicLoop(track, format, SampleRate, p.cfg.MusicVolume)}
			p.mixer.Add(p.music)
		}
	}

	speaker.Play(p.mixer)
	p.logger.Info("audio started", slog.Bool("music", p.music != nil))
}

// OnEvents plays a chime for cleared lines and a low tone at game over
func (p *Player) OnEvents(events []model.Event, _ model.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	for _, ev := range events {
		switch payload := ev.Payload.(type) {
		case model.LinesClearedPayload:
			p.play(LineClearTone(payload.Lines, SampleRate, p.cfg.EffectsVolume))
		case model.GameOverPayload:
			if p.music != nil {
				speaker.Lock()
				p.music.Paused = true
				speaker.Unlock()
			}
			p.play(GameOverTone(SampleRate, p.cfg.EffectsVolume))
		}
	}
}

func (p *Player) play(s beep.Streamer, err error) {
	if err != nil {
		p.logger.Warn("sound not generated", slog.String("error", err.Error()))
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops all sound
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	speaker.Clear()
	if p.track != nil {
		_ = p.track.Close()
	}
	speaker.Close()
	p.started = false
}
