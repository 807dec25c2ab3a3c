package handler

import (
	"net/http"

	dErrors "greenreg/pkg/domain-errors"
	"greenreg/pkg/platform/httputil"
	"greenreg/pkg/requestcontext"
)

// RequireSession rejects requests when no admin session is live and injects
// the admin ID into the request context for downstream handlers and audit.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := h.sessions.Current()
		if identity == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
			return
		}
		ctx := requestcontext.WithAdminID(r.Context(), identity.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
