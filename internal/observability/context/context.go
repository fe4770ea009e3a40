package context

import (
	"context"
	"strings"
)

// RequestIDKey is the context key for the request correlation identifier.
type RequestIDKey struct{}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, strings.TrimSpace(requestID))
}

// RequestIDFromContext returns the request ID from context, if set.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, ok := ctx.Value(RequestIDKey{}).(string)
	if !ok {
		return ""
	}
	return value
}
