// Package logging defines the structured-logging interface used across the
// service. Implementations wrap log/slog and zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "sanction stored", "id", id, "moderator", username)
type Logger interface {
	// Debug logs diagnostic details that are off in production.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New builds a Logger for the named backend ("slog" or "zap") writing JSON
// to w. The returned flush function must be called before exit.
func New(backend, level string, w io.Writer) (Logger, func() error, error) {
	switch strings.ToLower(backend) {
	case "", "slog":
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", level, err)
		}
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		return NewSlogLogger(slog.New(h)), func() error { return nil }, nil
	case "zap":
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", level, err)
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		z := zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
		return NewZapLogger(z), z.Sync, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
