// Package middleware provides HTTP middleware shared across routes.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taskflow/taskflow-api/internal/api/shared"
)

// RequestID stamps a request ID onto the request context. It should be
// applied early in the middleware chain so every subsequent handler and log
// line can correlate on it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetRequestID(r.Context())

		slog.Debug("request started",
			slog.String("request_id", shared.GetRequestID(ctx)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
