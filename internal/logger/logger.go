package logger

import (
	"log/slog"
	"os"
)

// Logger defaults to the process-wide slog logger so the helpers are
// safe before Init runs; Init replaces it with the configured handler.
var Logger = slog.Default()

// Init configures the process-wide slog logger. DEBUG=true switches the
// level; everything goes to stdout so the scheduler captures one stream.
func Init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	Logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(Logger)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
