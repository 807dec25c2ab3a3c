package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"greenreg/internal/registry"
	"greenreg/internal/registry/models"
	id "greenreg/pkg/domain"
	dErrors "greenreg/pkg/domain-errors"
	"greenreg/pkg/platform/httputil"
	"greenreg/pkg/requestcontext"
)

// Handler wires registry endpoints to the review workflow service.
type Handler struct {
	service *registry.Service
	logger  *slog.Logger
}

func New(service *registry.Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterPublic mounts the unauthenticated registration endpoint.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/registry/actors", h.HandleSubmit)
}

// RegisterReview mounts the reviewer endpoints. The caller wraps them in
// session auth.
func (h *Handler) RegisterReview(r chi.Router) {
	r.Get("/registry/actors", h.HandleList)
	r.Get("/registry/actors/counts", h.HandleCounts)
	r.Get("/registry/actors/{id}", h.HandleGet)
	r.Post("/registry/actors/{id}/approve", h.HandleApprove)
	r.Post("/registry/actors/{id}/reject", h.HandleReject)
}

// HandleSubmit handles POST /registry/actors requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Submit(ctx, req.ToParams())
	if err != nil {
		h.logger.WarnContext(ctx, "submission rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "submission accepted",
		"request_id", requestID,
		"submission_id", record.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRecord(record))
}

// HandleList handles GET /registry/actors requests. The optional status
// query narrows the listing; all records otherwise.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := models.Status(r.URL.Query().Get("status"))
	if filter != "" && filter != "all" && !filter.IsValid() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "status must be pending, approved or rejected"))
		return
	}
	if filter == "all" {
		filter = ""
	}

	records, err := h.service.List(ctx, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecords(records))
}

// HandleCounts handles GET /registry/actors/counts requests.
func (h *Handler) HandleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Counts(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, counts)
}

// HandleGet handles GET /registry/actors/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	submissionID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	record, err := h.service.FindByID(r.Context(), submissionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleApprove handles POST /registry/actors/{id}/approve requests.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	submissionID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Approve(ctx, submissionID); err != nil {
		h.logger.WarnContext(ctx, "approve failed",
			"request_id", requestcontext.RequestID(ctx),
			"submission_id", submissionID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReject handles POST /registry/actors/{id}/reject requests.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	submissionID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	req, decoded := httputil.DecodeAndPrepare[RejectRequest](w, r, h.logger, ctx, requestID)
	if !decoded {
		return
	}

	if err := h.service.Reject(ctx, submissionID, req.Reason); err != nil {
		h.logger.WarnContext(ctx, "reject failed",
			"request_id", requestID,
			"submission_id", submissionID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (id.SubmissionID, bool) {
	submissionID, err := id.ParseSubmissionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.SubmissionID{}, false
	}
	return submissionID, true
}
