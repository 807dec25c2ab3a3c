// Package recovery converts handler panics into 500 responses instead of
// tearing down the server.
package recovery

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	dErrors "greenreg/pkg/domain-errors"
	"greenreg/pkg/platform/httputil"
	"greenreg/pkg/platform/middleware/request"
)

func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "handler panicked",
						"request_id", request.GetRequestID(r.Context()),
						"path", r.URL.Path,
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
