package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// newLogger builds the JSON logger for a command. Logs go to the configured
// file, or to fallback when none is set. The returned close function
// releases the file.
func newLogger(cfg *Config, fallback io.Writer, defaultLevel slog.Level) (*slog.Logger, func(), error) {
	level := defaultLevel
	if cfg.LogLevel != "" {
		parsed, err := parseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		level = parsed
	}

	w := fallback
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}
