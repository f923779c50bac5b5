package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the key type for values stored in the request context.
type ContextKey string

// RequestIDKey is the key for the request ID in the request context.
const RequestIDKey ContextKey = "requestID"

// SetRequestID stamps a fresh request ID onto the context. The ID correlates
// log lines and error responses for a single request.
func SetRequestID(ctx context.Context) context.Context {
	return context.WithValue(ctx, RequestIDKey, uuid.NewString())
}

// GetRequestID retrieves the request ID from the context.
// If no request ID exists, it returns an empty string.
func GetRequestID(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
