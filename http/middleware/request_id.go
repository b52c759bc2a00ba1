package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/trailhead"
)

// RequestIDHeader carries the request id back to the client.
const RequestIDHeader = "X-Request-Id"

// RequestID stashes a new uuid in the request context under trailhead.RequestIDKey
// and echoes it in the response's RequestIDHeader.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(RequestIDHeader, id)
			h.ServeHTTP(w, r.Clone(trailhead.NewRequestIDContext(r.Context(), id)))
		})
	}
}
