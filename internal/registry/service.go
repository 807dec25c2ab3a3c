// Package registry implements the climate-actor review workflow: public
// submission, reviewer approval and rejection, listing and derived counts.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"greenreg/internal/artifact"
	"greenreg/internal/audit"
	"greenreg/internal/registry/metrics"
	"greenreg/internal/registry/models"
	"greenreg/internal/registry/store"
	id "greenreg/pkg/domain"
	dErrors "greenreg/pkg/domain-errors"
	"greenreg/pkg/platform/sentinel"
	"greenreg/pkg/requestcontext"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// Service enforces the submission state machine. Transitions are one-shot:
// pending is the sole initial state, approved and rejected are terminal, and
// the pending-only guard lives in the store so racing reviewers cannot both
// win.
type Service struct {
	store     store.Store
	artifacts artifact.Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	auditor   *audit.Publisher
	tracer    trace.Tracer
}

type Option func(*Service)

// WithMetrics attaches registry metrics.
func WithMetrics(mtr *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = mtr
	}
}

// WithAudit attaches the audit publisher.
func WithAudit(pub *audit.Publisher) Option {
	return func(s *Service) {
		s.auditor = pub
	}
}

func NewService(st store.Store, artifacts artifact.Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:     st,
		artifacts: artifacts,
		logger:    logger,
		tracer:    otel.Tracer("greenreg/registry"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Logo is an optional artifact attached to a submission.
type Logo struct {
	ContentType string
	Data        []byte
}

// SubmitParams is the public registration form payload.
type SubmitParams struct {
	ActorType        models.ActorType
	OrganizationName string
	FocusAreas       []string
	YearEstablished  *int
	LGAOperations    []string
	Description      string
	ContactName      string
	ContactEmail     string
	ContactPhone     string
	WebsiteURL       string
	Password         string
	ConfirmPassword  string
	Consent          bool
	Logo             *Logo
}

// Submit validates the form and creates a pending record. The optional logo
// upload is best-effort: a storage failure leaves the record with no logo
// rather than failing the submission.
func (s *Service) Submit(ctx context.Context, params SubmitParams) (*models.SubmissionRecord, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Submit")
	defer span.End()

	if err := params.validate(); err != nil {
		s.metrics.IncrementSubmission("invalid")
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		s.metrics.IncrementSubmission("unavailable")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash credential")
	}

	record := &models.SubmissionRecord{
		ID:               id.NewSubmissionID(),
		ActorType:        params.ActorType,
		OrganizationName: strings.TrimSpace(params.OrganizationName),
		FocusAreas:       params.FocusAreas,
		YearEstablished:  params.YearEstablished,
		LGAOperations:    params.LGAOperations,
		Description:      strings.TrimSpace(params.Description),
		ContactName:      strings.TrimSpace(params.ContactName),
		ContactEmail:     strings.TrimSpace(params.ContactEmail),
		ContactPhone:     strings.TrimSpace(params.ContactPhone),
		WebsiteURL:       strings.TrimSpace(params.WebsiteURL),
		CredentialHash:   string(hash),
		Status:           models.StatusPending,
		CreatedAt:        requestcontext.Now(ctx),
	}

	if params.Logo != nil {
		record.LogoURL = s.uploadLogo(ctx, params.Logo)
	}

	if err := s.store.Create(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementSubmission("conflict")
			return nil, dErrors.New(dErrors.CodeConflict, "submission already exists")
		}
		s.metrics.IncrementSubmission("unavailable")
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "registry unavailable")
	}

	s.metrics.IncrementSubmission("accepted")
	s.refreshPendingGauge(ctx)
	s.emit(ctx, audit.Event{
		Actor:   "public",
		Action:  audit.ActionSubmissionReceived,
		Subject: record.ID.String(),
		Details: map[string]string{"organization": record.OrganizationName},
	})
	s.logger.InfoContext(ctx, "submission received",
		"submission_id", record.ID.String(),
		"organization", record.OrganizationName,
		"actor_type", record.ActorType.String(),
	)

	return record.Clone(), nil
}

// Approve transitions a pending record to approved, stamping approved-at and
// the reviewing admin.
func (s *Service) Approve(ctx context.Context, submissionID id.SubmissionID) error {
	ctx, span := s.tracer.Start(ctx, "registry.Approve")
	defer span.End()

	now := requestcontext.Now(ctx)
	transition := store.Transition{
		To:         models.StatusApproved,
		ApprovedAt: &now,
	}
	if reviewer := requestcontext.AdminID(ctx); !reviewer.IsNil() {
		transition.ApprovedBy = &reviewer
	}

	if err := s.transition(ctx, submissionID, transition, audit.ActionSubmissionApproved, nil); err != nil {
		return err
	}

	s.metrics.IncrementTransition("approved")
	return nil
}

// Reject transitions a pending record to rejected. The reason is required
// after trimming; the record stays pending when it is missing.
func (s *Service) Reject(ctx context.Context, submissionID id.SubmissionID, reason string) error {
	ctx, span := s.tracer.Start(ctx, "registry.Reject")
	defer span.End()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		s.metrics.IncrementTransition("invalid")
		return dErrors.New(dErrors.CodeInvalidInput, "rejection reason is required")
	}

	transition := store.Transition{
		To:              models.StatusRejected,
		RejectionReason: &reason,
	}

	details := map[string]string{"reason": reason}
	if err := s.transition(ctx, submissionID, transition, audit.ActionSubmissionRejected, details); err != nil {
		return err
	}

	s.metrics.IncrementTransition("rejected")
	return nil
}

// List returns submissions newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, filter models.Status) ([]*models.SubmissionRecord, error) {
	records, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "registry unavailable")
	}
	return records, nil
}

// FindByID returns a single submission.
func (s *Service) FindByID(ctx context.Context, submissionID id.SubmissionID) (*models.SubmissionRecord, error) {
	record, err := s.store.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "submission not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "registry unavailable")
	}
	return record, nil
}

// Counts returns the derived per-status view for the review dashboard.
func (s *Service) Counts(ctx context.Context) (models.StatusCounts, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return models.StatusCounts{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "registry unavailable")
	}
	return counts, nil
}

func (s *Service) transition(ctx context.Context, submissionID id.SubmissionID, transition store.Transition, action audit.Action, details map[string]string) error {
	if err := s.store.UpdateStatus(ctx, submissionID, transition); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.metrics.IncrementTransition("not_found")
			return dErrors.New(dErrors.CodeNotFound, "submission not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			s.metrics.IncrementTransition("already_terminal")
			return dErrors.New(dErrors.CodeConflict, "submission has already been reviewed")
		default:
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "registry unavailable")
		}
	}

	s.refreshPendingGauge(ctx)
	s.emit(ctx, audit.Event{
		Actor:   requestcontext.AdminID(ctx).String(),
		Action:  action,
		Subject: submissionID.String(),
		Details: details,
	})
	s.logger.InfoContext(ctx, "submission reviewed",
		"submission_id", submissionID.String(),
		"status", transition.To.String(),
		"reviewer_id", requestcontext.AdminID(ctx).String(),
	)
	return nil
}

// uploadLogo validates and stores the logo. Any failure is logged and
// swallowed; the submission proceeds without a logo.
func (s *Service) uploadLogo(ctx context.Context, logo *Logo) *string {
	upload, err := artifact.Validate(logo.ContentType, logo.Data)
	if err != nil {
		s.metrics.IncrementLogoUpload("invalid")
		s.logger.WarnContext(ctx, "logo rejected", "error", err)
		return nil
	}

	url, err := s.artifacts.Put(ctx, upload)
	if err != nil {
		s.metrics.IncrementLogoUpload("failed")
		s.logger.WarnContext(ctx, "logo upload failed", "error", err)
		return nil
	}

	s.metrics.IncrementLogoUpload("stored")
	return &url
}

func (s *Service) refreshPendingGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return
	}
	s.metrics.SetPending(counts.Pending)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	_ = s.auditor.Emit(ctx, event)
}

func (p *SubmitParams) validate() error {
	if !p.ActorType.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "actor_type must be state or non_state")
	}
	if strings.TrimSpace(p.OrganizationName) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "organization_name is required")
	}
	if strings.TrimSpace(p.ContactName) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "contact_name is required")
	}
	if strings.TrimSpace(p.ContactEmail) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "contact_email is required")
	}
	if strings.TrimSpace(p.ContactPhone) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "contact_phone is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "description is required")
	}
	if len(p.FocusAreas) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "at least one focus_area is required")
	}
	if len(p.LGAOperations) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "at least one lga_operation is required")
	}
	if p.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	if p.Password != p.ConfirmPassword {
		return dErrors.New(dErrors.CodeInvalidInput, "passwords do not match")
	}
	if len(p.Password) < minPasswordLength {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be at least 6 characters long")
	}
	if !p.Consent {
		return dErrors.New(dErrors.CodeInvalidInput, "consent is required")
	}
	return nil
}
