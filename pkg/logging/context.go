package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const (
	loggerKey contextKey = iota
	passIDKey
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithPass tags the context logger with the reconciliation pass ID.
func WithPass(ctx context.Context, passID string) context.Context {
	ctx = context.WithValue(ctx, passIDKey, passID)
	return WithField(ctx, "pass_id", passID)
}

// PassID extracts the pass ID from context.
func PassID(ctx context.Context) string {
	if id, ok := ctx.Value(passIDKey).(string); ok {
		return id
	}
	return ""
}

// WithSKU adds the SKU being reconciled to the context logger.
func WithSKU(ctx context.Context, sku string) context.Context {
	return WithField(ctx, "sku", sku)
}

// WithProductID adds a remote product ID to the context logger.
func WithProductID(ctx context.Context, id int64) context.Context {
	return WithField(ctx, "product_id", id)
}

// WithField adds a single field to the logger in the context.
func WithField(ctx context.Context, key string, value any) context.Context {
	newLogger := addField(FromContext(ctx).With(), key, value).Logger()
	return WithLogger(ctx, &newLogger)
}
