package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
)

// Recoverer converts panics into 500 problem responses. The panic value and
// stack are logged server-side with the request ID; the client only sees the
// generic internal error body.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					// The connection is gone; nothing useful to write.
					panic(rec)
				}

				log := logger.FromContext(r.Context())
				log.Error("panic while handling request",
					"panic", fmt.Sprintf("%v", rec),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))

				shared.RespondWithProblem(w, r, http.StatusInternalServerError,
					"Internal Server Error",
					"An unexpected error occurred. Please try again later.",
					nil)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
