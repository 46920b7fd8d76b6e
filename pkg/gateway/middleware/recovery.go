package middleware

import (
	"net/http"
	"runtime/debug"

	"mercator-hq/tollgate/pkg/gateway"
	"mercator-hq/tollgate/pkg/telemetry/logging"
)

// Recovery turns a handler panic into a logged 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logging.FromContext(r.Context(), nil).ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				gateway.WriteError(w, http.StatusInternalServerError,
					"An internal error occurred. Please try again later.")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
