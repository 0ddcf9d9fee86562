// Package logging configures the process-wide slog and std log output.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/diewo77/go-profiles/internal/config"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Setup installs the default slog logger and bridges the std log package to the same writer.
// Logs go to stderr unless cfg.File is set, in which case the file is rotated by size.
func Setup(cfg config.LogConfig) *slog.Logger {
	var w io.Writer = os.Stderr
	if strings.TrimSpace(cfg.File) != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}
	logger := New(w, cfg.Level, cfg.Format)
	slog.SetDefault(logger)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFlags(0)
	} else {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}
	log.SetOutput(w)
	return logger
}

// New builds a logger writing to w. format is text or json; level is debug|info|warn|error.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
