package core

import (
	"context"
	"log/slog"
)

// RequestIDHeader carries the per-request correlation ID in and out of the service.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// WithRequestID returns a new context with the request ID attached.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestAttr returns the request ID as a log attribute.
func RequestAttr(ctx context.Context) slog.Attr {
	return slog.String("request_id", GetRequestID(ctx))
}
