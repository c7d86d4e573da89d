// Package logging provides structured logging for mapundo.
// A package-level slog logger is shared by every component. Init replaces
// it once the configuration and flags are known.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/manav03panchal/mapundo/internal/errors"
)

var (
	defaultLogger = New(DefaultConfig())
	loggerMu      sync.RWMutex
)

// Config holds logger configuration.
type Config struct {
	Level     slog.Level // Minimum log level
	JSON      bool       // Use JSON output format
	Output    io.Writer  // Output destination (default: stderr)
	AddSource bool       // Include source file and line number
}

// DefaultConfig returns the default logger configuration.
// Only warnings reach the terminal so engine diagnostics do not clutter the shell.
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelWarn,
		Output: os.Stderr,
	}
}

// DebugConfig returns a configuration suitable for debug mode.
func DebugConfig() Config {
	return Config{
		Level:     slog.LevelDebug,
		JSON:      true,
		Output:    os.Stderr,
		AddSource: true,
	}
}

// ParseLevel maps a level name from the config file or environment to a
// slog level. The empty string means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		err := errors.UserErrorFrom(errors.ErrInvalidArgument, "level", s)
		err.Message = "invalid log level"
		err.Suggestion = "Use one of debug, info, warn, error"
		return 0, err
	}
}

// Init replaces the global logger.
func Init(cfg Config) {
	l := New(cfg)

	loggerMu.Lock()
	defaultLogger = l
	loggerMu.Unlock()
}

// New builds a standalone logger from cfg without touching the global one.
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(output, opts))
	}
	return slog.New(slog.NewTextHandler(output, opts))
}

// InitDebug initializes the logger in debug mode with JSON output.
func InitDebug() {
	Init(DebugConfig())
}

// Logger returns the current logger instance.
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// Enabled reports whether the global logger emits level.
func Enabled(level slog.Level) bool {
	return Logger().Enabled(context.Background(), level)
}

// With returns a logger with additional attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// Info logs at INFO level.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// DebugLog logs at DEBUG level.
func DebugLog(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Warn logs at WARN level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// WarnContext logs at WARN level, tagged with the context's session.
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).WarnContext(ctx, msg, args...)
}

// Common structured logging fields.
const (
	KeySession   = "session"
	KeyOperation = "op"
	KeyStack     = "stack"
	KeyDepth     = "depth"
	KeyNode      = "node"
	KeyKind      = "kind"
	KeyMap       = "map"
	KeyLevels    = "levels"
	KeyCount     = "count"
	KeyError     = "err"
	KeyPath      = "path"
	KeyLine      = "line"
)
