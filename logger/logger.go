package logger

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Config selects the process logger. Format is "text" (default) or "json";
// Level is any name slog understands, falling back to info.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

var current atomic.Pointer[slog.Logger]

// Init installs the process logger and makes it the slog default. Calling
// it again replaces the logger.
func Init(cfg Config) {
	l := New(cfg)
	current.Store(l)
	slog.SetDefault(l)
}

// New builds a logger without installing it.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// L returns the process logger, installing an info-level text logger on
// first use.
func L() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	l := New(Config{})
	if current.CompareAndSwap(nil, l) {
		slog.SetDefault(l)
		return l
	}
	return current.Load()
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
