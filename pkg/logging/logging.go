// Package logging provides the shared structured logger.
//
// Output goes to stderr until Init picks another writer. Stderr shares the
// terminal with the UI, so the application calls Init with a log file or
// io.Discard before the UI starts. The level is read from PNGNOTE_LOG_LEVEL
// (debug, info, warn, error) and defaults to info.
//
//	log := logging.New("booklist")
//	log.Info("opened root", "location", loc)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const levelEnvVar = "PNGNOTE_LOG_LEVEL"

var (
	mu         sync.Mutex
	baseLogger *slog.Logger
)

// Init replaces the base logger with one writing to w. Loggers created by New
// before Init keep writing to the previous destination.
func Init(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	baseLogger = newLogger(w)
}

// New returns a logger tagged with component. An empty component returns the
// base logger.
func New(component string) *slog.Logger {
	mu.Lock()
	if baseLogger == nil {
		baseLogger = newLogger(os.Stderr)
	}
	logger := baseLogger
	mu.Unlock()
	if component == "" {
		return logger
	}
	return logger.With("component", component)
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv(levelEnvVar)),
	}))
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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
