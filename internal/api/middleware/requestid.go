// Package middleware provides the HTTP middleware chain: request-ID
// correlation, bearer-token authentication, and panic recovery.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
)

// RequestID assigns a correlation ID to every request before any business
// logic runs. An inbound X-Request-ID header is propagated as-is; otherwise
// a fresh UUID is generated. The same ID is echoed on the response header,
// embedded in envelope meta and problem bodies, and attached to the
// request-scoped logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(shared.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := shared.WithRequestID(r.Context(), requestID)

		// Thread a logger annotated with the request ID down the stack.
		log := slog.With(slog.String("request_id", requestID))
		ctx = logger.WithContext(ctx, log)

		w.Header().Set(shared.RequestIDHeader, requestID)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
