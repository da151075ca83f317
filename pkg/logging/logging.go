// Package logging holds the process-wide zap logger. Production config by
// default; set DEBUG=true for the development encoder.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
)

type contextKey string

const (
	// UserIDKey and UpdateIDKey carry per-update identity through contexts
	// so log lines from any layer can be correlated.
	UserIDKey   contextKey = "user_id"
	UpdateIDKey contextKey = "update_id"
)

var logger *zap.Logger

func init() {
	if os.Getenv("DEBUG") == "true" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
}

// L returns the shared logger.
func L() *zap.Logger {
	return logger
}

// With returns the shared logger with extra fields attached.
func With(fields ...zap.Field) *zap.Logger {
	return logger.With(fields...)
}

// WithCtx returns the shared logger annotated with any identity fields
// present on the context.
func WithCtx(ctx context.Context) *zap.Logger {
	fields := []zap.Field{}

	if v := ctx.Value(UserIDKey); v != nil {
		fields = append(fields, zap.Any("user_id", v))
	}
	if v := ctx.Value(UpdateIDKey); v != nil {
		fields = append(fields, zap.Any("update_id", v))
	}

	return logger.With(fields...)
}

// WithUpdate stamps identity fields onto a context for WithCtx to pick up.
func WithUpdate(ctx context.Context, userID int64, updateID int) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UpdateIDKey, updateID)
}
