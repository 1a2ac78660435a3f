// Package logger provides the structured, levelled logger for Shopline,
// built on log/slog.
//
// WithCtx returns a logger with the request ID already attached, so every
// log line emitted from a handler or service is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("payment confirmed", "order_id", order.ID, "amount", p.Amount)
//	// → time=... level=INFO msg="payment confirmed" request_id=a1b2c3d4 order_id=42 amount=4999
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/nikhilverma/shopline/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		handler = slog.NewJSONHandler(os.Stdout, opts) // structured JSON for log aggregators
	default:
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		handler = slog.NewTextHandler(os.Stdout, opts) // human-readable for dev
	}

	// Optional async MongoDB sink: every record goes to stdout AND Mongo.
	if uri := config.Get("MONGO_LOG_URI", ""); uri != "" {
		db := config.Get("MONGO_LOG_DB", "shopline")
		col := config.Get("MONGO_LOG_COLLECTION", "logs")
		if mh, err := NewMongoHandler(uri, db, col); err == nil {
			handler = NewTeeHandler(handler, mh)
		}
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the per-request logger injected by the Logger middleware,
// or the base logger if the context has none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware — not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level on the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level on the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level on the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level on the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
