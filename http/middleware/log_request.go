package middleware

import (
	"net/http"
	"strings"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/logger"
)

// LogRequest logs the request's originating address, method, and requested URL
// using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following keys:
// - password
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			trailhead.Mask(q, "password")

			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if r.RemoteAddr != "" {
				strs = append([]string{r.RemoteAddr}, strs...)
			}

			ls.Info(strings.Join(strs, " "), &logger.LogContext{
				RequestID: trailhead.RequestIDFromContext(r.Context()),
			})
			h.ServeHTTP(w, r)
		})
	}
}
