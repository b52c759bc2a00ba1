package trailhead

import "context"

type Key string

const (
	// RequestIDKey stashes the unique UUID minted for each execution context.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the session payload loaded for an execution context.
	SessionKey Key = "SessionKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "trailhead context key: " + string(k)
}

// NewRequestIDContext stashes id in ctx.
func NewRequestIDContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFromContext retrieves the request id stashed in ctx.
// It returns the zero value if none has been set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
