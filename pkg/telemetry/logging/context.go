package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// ConsumerKey is the context key for the derived consumer identity.
	ConsumerKey contextKey = "consumer"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithConsumer adds a consumer identity to the context.
func WithConsumer(ctx context.Context, consumer string) context.Context {
	return context.WithValue(ctx, ConsumerKey, consumer)
}

// GetConsumer retrieves the consumer identity from the context.
func GetConsumer(ctx context.Context) string {
	if consumer, ok := ctx.Value(ConsumerKey).(string); ok {
		return consumer
	}
	return ""
}

// FromContext returns logger with the request-scoped fields found in ctx.
// A nil logger means slog.Default().
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}

	var fields []any
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if consumer := GetConsumer(ctx); consumer != "" {
		fields = append(fields, "consumer", consumer)
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
