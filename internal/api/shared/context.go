package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/taskward/taskward-api/internal/policy"
)

// ContextKey is the type for context values set by the API layer.
type ContextKey string

const (
	// CallerContextKey holds the authenticated policy.Caller resolved by
	// the auth middleware.
	CallerContextKey ContextKey = "caller"

	// TraceIDKey holds the per-request trace ID.
	TraceIDKey ContextKey = "traceID"

	// traceIDLength is the number of random bytes in a trace ID.
	traceIDLength = 16
)

// WithCaller stores the authenticated caller in the context.
func WithCaller(ctx context.Context, caller policy.Caller) context.Context {
	return context.WithValue(ctx, CallerContextKey, caller)
}

// CallerFromContext retrieves the authenticated caller from the context.
func CallerFromContext(ctx context.Context) (policy.Caller, bool) {
	caller, ok := ctx.Value(CallerContextKey).(policy.Caller)
	return caller, ok
}

// SetTraceID adds a fresh trace ID to the context for log correlation.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "" if absent.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

func generateTraceID() string {
	b := make([]byte, traceIDLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable for anything security
		// relevant, but a trace ID only needs to be distinct.
		return "trace-unavailable"
	}
	return hex.EncodeToString(b)
}
