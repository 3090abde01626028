package app

import (
	"io"
	"log/slog"
)

// newLogger builds the slog.Logger an App and its pipelines log through.
// The logger is never installed as the process default, so concurrent App
// instances (tests, embedded use) keep isolated output. Unrecognized level
// strings fall back to info; the CLI layer has already validated its own
// input, so this only matters for programmatic Config values.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
