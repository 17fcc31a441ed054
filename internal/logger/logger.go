package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// configures the process-wide logger from ENVIRONMENT
func init() {
	defaultLogger = slog.New(newHandler(os.Getenv("ENVIRONMENT"), nil))
}

// production gets JSON on stdout at info, everything else gets text on stderr at debug
func newHandler(env string, w io.Writer) slog.Handler {
	if env == "production" {
		if w == nil {
			w = os.Stdout
		}

		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	if w == nil {
		w = os.Stderr
	}

	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// replaces the default logger (tests redirect output with this)
func SetOutput(env string, w io.Writer) {
	defaultLogger = slog.New(newHandler(env, w))
}

// returns the default logger instance
func Default() *slog.Logger {
	return defaultLogger
}

// creates a logger with additional fields
func With(args ...any) *slog.Logger {
	return defaultLogger.With(args...)
}

// returns the request-scoped logger, or the default one
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return defaultLogger
	}

	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}

	return defaultLogger
}

// stores a logger in the context
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

type loggerKey struct{}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// logs an error with an "error" field attached
func ErrorErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	defaultLogger.Error(msg, args...)
}

// logs and exits (startup failures only)
func Fatal(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
	os.Exit(1)
}

func FatalErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	defaultLogger.Error(msg, args...)
	os.Exit(1)
}
