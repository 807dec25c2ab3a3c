// Package request provides request ID middleware. Every request gets a
// UUID that shows up in logs and error reports for correlation.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"greenreg/pkg/requestcontext"
)

const headerRequestID = "X-Request-ID"

// Middleware assigns a request ID (honoring an inbound X-Request-ID) and
// echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
