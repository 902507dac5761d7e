// Package middleware holds HTTP middleware applied by the router.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/halvard/wordvault-api/internal/api/shared"
)

// TraceMiddleware adds a trace ID to the request context.
// It should be applied early in the middleware chain so that all
// subsequent handlers have access to the trace ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.With(slog.String("trace_id", traceID))
		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
