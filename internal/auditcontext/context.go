package auditcontext

import (
	"context"
	"strings"
)

// RequestIDKey is the request context key for the correlation identifier.
type RequestIDKey struct{}

// IPAddressKey is the request context key for the caller address.
type IPAddressKey struct{}

// UserAgentKey is the request context key for the caller user agent.
type UserAgentKey struct{}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, strings.TrimSpace(requestID))
}

// RequestIDFromContext returns the request ID from context, if set.
func RequestIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, RequestIDKey{})
}

// WithIPAddress stores the caller address in the context.
func WithIPAddress(ctx context.Context, ipAddress string) context.Context {
	return context.WithValue(ctx, IPAddressKey{}, strings.TrimSpace(ipAddress))
}

// IPAddressFromContext returns the caller address from context, if set.
func IPAddressFromContext(ctx context.Context) string {
	return stringFromContext(ctx, IPAddressKey{})
}

// WithUserAgent stores the caller user agent in the context.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, UserAgentKey{}, strings.TrimSpace(userAgent))
}

// UserAgentFromContext returns the caller user agent from context, if set.
func UserAgentFromContext(ctx context.Context) string {
	return stringFromContext(ctx, UserAgentKey{})
}

func stringFromContext(ctx context.Context, key any) string {
	if ctx == nil {
		return ""
	}
	value, ok := ctx.Value(key).(string)
	if !ok {
		return ""
	}
	return value
}
