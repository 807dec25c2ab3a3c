// Package httptransport assembles the portal's HTTP surface: middleware
// chain, domain handlers, health and metrics endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	registryhandler "greenreg/internal/registry/handler"
	sessionhandler "greenreg/internal/session/handler"
	"greenreg/pkg/platform/httputil"
	"greenreg/pkg/platform/middleware/logging"
	"greenreg/pkg/platform/middleware/metadata"
	"greenreg/pkg/platform/middleware/recovery"
	"greenreg/pkg/platform/middleware/request"
	"greenreg/pkg/platform/middleware/requesttime"
)

// HealthCheck probes one dependency. Name appears in the /healthz body.
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Logger   *slog.Logger
	Sessions *sessionhandler.Handler
	Registry *registryhandler.Handler
	Checks   []HealthCheck
}

// NewRouter builds the full portal router. Reviewer endpoints sit behind the
// session guard; registration and login are public.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(recovery.Middleware(deps.Logger))
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(logging.Middleware(deps.Logger))

	deps.Sessions.Register(r)
	deps.Registry.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.RequireSession)
		deps.Registry.RegisterReview(r)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(deps.Checks))

	return r
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for _, check := range checks {
			if err := check.Probe(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[check.Name] = err.Error()
				continue
			}
			body[check.Name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
