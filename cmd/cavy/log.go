package main

import (
	"io"
	"log/slog"

	"gitlab.com/variadico/lctime"

	"github.com/zephyrtronium/cavy/internal/config"
)

// newLogger creates the trace logger described by cfg, or nil if tracing is
// off.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if !cfg.Trace {
		return nil
	}
	level, _ := cfg.Log.SlogLevel()
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceTime(cfg.Log.TimeFormat),
	}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// replaceTime formats record times with a strftime layout. An empty layout
// drops them.
func replaceTime(layout string) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) != 0 || a.Key != slog.TimeKey {
			return a
		}
		if layout == "" {
			return slog.Attr{}
		}
		return slog.String(slog.TimeKey, lctime.Strftime(layout, a.Value.Time()))
	}
}
