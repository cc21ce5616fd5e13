package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

var logger *slog.Logger

func init() {
	Setup()
}

// Setup (re)initializes the process logger from LOG_LEVEL and LOG_FORMAT.
// Colorized output is used on a terminal unless LOG_FORMAT=json.
func Setup() {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:   level,
			NoColor: !isatty.IsTerminal(os.Stdout.Fd()),
		})
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// Debug logs at debug level with optional key-value pairs.
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs at info level with optional key-value pairs.
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs at warn level with optional key-value pairs.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs at error level with optional key-value pairs.
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// DebugWithComponent logs at debug level tagged with a component name.
func DebugWithComponent(component, msg string, args ...any) {
	logger.With("component", component).Debug(msg, args...)
}

// InfoWithComponent logs at info level tagged with a component name.
func InfoWithComponent(component, msg string, args ...any) {
	logger.With("component", component).Info(msg, args...)
}

// WarnWithComponent logs at warn level tagged with a component name.
func WarnWithComponent(component, msg string, args ...any) {
	logger.With("component", component).Warn(msg, args...)
}

// ErrorWithComponent logs at error level tagged with a component name.
func ErrorWithComponent(component, msg string, args ...any) {
	logger.With("component", component).Error(msg, args...)
}
