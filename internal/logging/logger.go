package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Common structured log field keys.
const (
	FieldTournament = "tournament_id"
	FieldCategory   = "category_id"
	FieldMatch      = "match_id"
	FieldPlayer     = "player_id"
	FieldCount      = "count"
)

type Config struct {
	Format string
	Level  string
}

// NewLogger returns a text or JSON slog logger writing to stdout.
func NewLogger(cfg Config) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// OrDefault lets constructors accept a nil logger.
func OrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
