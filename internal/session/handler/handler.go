package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"greenreg/internal/admin"
	adminmodels "greenreg/internal/admin/models"
	"greenreg/internal/policy"
	"greenreg/internal/session"
	dErrors "greenreg/pkg/domain-errors"
	"greenreg/pkg/platform/httputil"
	"greenreg/pkg/requestcontext"
)

// Registrar creates administrator accounts. The session handler fronts it
// because registration is gated on the live session's role.
type Registrar interface {
	Register(ctx context.Context, params admin.RegisterParams) (*adminmodels.Account, error)
}

// Handler wires the admin session endpoints to the session manager.
type Handler struct {
	sessions  *session.Manager
	registrar Registrar
	logger    *slog.Logger
}

func New(sessions *session.Manager, registrar Registrar, logger *slog.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		registrar: registrar,
		logger:    logger,
	}
}

// Register mounts session endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/login", h.HandleLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)
		r.Post("/admin/logout", h.HandleLogout)
		r.Get("/admin/session", h.HandleSession)
		r.Post("/admin/session/activity", h.HandleActivity)
		r.Post("/admin/register", h.HandleRegister)
	})
}

// HandleLogin handles POST /admin/login requests.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	identity, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "login succeeded",
		"request_id", requestID,
		"admin_id", identity.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromSession(identity, h.sessions.TimeRemaining()))
}

// HandleLogout handles POST /admin/logout requests.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// HandleSession handles GET /admin/session requests: the identity snapshot
// plus the remaining countdown, polled by the session status display.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	identity := h.sessions.Current()
	if identity == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "no active session"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSession(identity, h.sessions.TimeRemaining()))
}

// HandleActivity handles POST /admin/session/activity requests. Idempotent
// and cheap: callers may report every interaction.
func (h *Handler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	h.sessions.RecordActivity(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// HandleRegister handles POST /admin/register requests. Only a super admin
// session may create accounts.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	identity := h.sessions.Current()
	if !policy.CanCreateAdmins(identity) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "only super admins can create admin accounts"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	account, err := h.registrar.Register(ctx, admin.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.ParsedRole(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "admin registration failed",
			"request_id", requestID,
			"actor_id", identity.ID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "admin account created",
		"request_id", requestID,
		"actor_id", identity.ID.String(),
		"admin_id", account.ID.String(),
		"role", account.Role.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromAccount(account))
}
