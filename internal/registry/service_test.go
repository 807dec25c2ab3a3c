package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"greenreg/internal/artifact"
	"greenreg/internal/registry/models"
	"greenreg/internal/registry/store"
	id "greenreg/pkg/domain"
	dErrors "greenreg/pkg/domain-errors"
	"greenreg/pkg/requestcontext"
)

type failingArtifactStore struct{}

func (failingArtifactStore) Put(context.Context, artifact.Upload) (string, error) {
	return "", dErrors.New(dErrors.CodeUnavailable, "artifact store unavailable")
}

type ServiceSuite struct {
	suite.Suite
	store     *store.InMemoryStore
	artifacts *artifact.InMemoryStore
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = store.NewMemory()
	s.artifacts = artifact.NewMemory()
	s.service = NewService(s.store, s.artifacts, logger)
}

func validParams() SubmitParams {
	return SubmitParams{
		ActorType:        models.ActorTypeNonState,
		OrganizationName: "Kano Green Initiative",
		FocusAreas:       []string{"Renewable Energy", "Waste Management"},
		LGAOperations:    []string{"Nassarawa", "Dala"},
		Description:      "Community solar installations across Kano.",
		ContactName:      "Amina Bello",
		ContactEmail:     "amina@kgi.org.ng",
		ContactPhone:     "+2348012345678",
		Password:         "s3cret-pass",
		ConfirmPassword:  "s3cret-pass",
		Consent:          true,
	}
}

func (s *ServiceSuite) TestSubmitCreatesPendingRecord() {
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	record, err := s.service.Submit(ctx, validParams())
	s.Require().NoError(err)

	s.Equal(models.StatusPending, record.Status)
	s.True(record.CreatedAt.Equal(now))
	s.Nil(record.ApprovedAt)
	s.Nil(record.RejectionReason)
	s.Nil(record.LogoURL)
	s.False(record.ID.IsNil())

	s.NoError(bcrypt.CompareHashAndPassword([]byte(record.CredentialHash), []byte("s3cret-pass")))

	counts, err := s.service.Counts(ctx)
	s.Require().NoError(err)
	s.Equal(models.StatusCounts{Total: 1, Pending: 1}, counts)
}

func (s *ServiceSuite) TestSubmitValidation() {
	tests := []struct {
		name    string
		mutate  func(*SubmitParams)
		message string
	}{
		{
			name:    "missing organization name",
			mutate:  func(p *SubmitParams) { p.OrganizationName = "  " },
			message: "organization_name is required",
		},
		{
			name:    "unknown actor type",
			mutate:  func(p *SubmitParams) { p.ActorType = "federal" },
			message: "actor_type must be state or non_state",
		},
		{
			name:    "empty focus areas",
			mutate:  func(p *SubmitParams) { p.FocusAreas = nil },
			message: "at least one focus_area is required",
		},
		{
			name:    "empty regions",
			mutate:  func(p *SubmitParams) { p.LGAOperations = []string{} },
			message: "at least one lga_operation is required",
		},
		{
			name:    "password mismatch",
			mutate:  func(p *SubmitParams) { p.ConfirmPassword = "different" },
			message: "passwords do not match",
		},
		{
			name: "password too short",
			mutate: func(p *SubmitParams) {
				p.Password = "abc"
				p.ConfirmPassword = "abc"
			},
			message: "password must be at least 6 characters long",
		},
		{
			name:    "consent not given",
			mutate:  func(p *SubmitParams) { p.Consent = false },
			message: "consent is required",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			params := validParams()
			tt.mutate(&params)

			_, err := s.service.Submit(context.Background(), params)
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
			s.Equal(tt.message, dErrors.MessageOf(err))
		})
	}

	// Nothing was created by any of the rejected submissions.
	counts, err := s.service.Counts(context.Background())
	s.Require().NoError(err)
	s.Zero(counts.Total)
}

func (s *ServiceSuite) TestSubmitStoresLogo() {
	params := validParams()
	params.Logo = &Logo{ContentType: "image/png", Data: []byte("logo-bytes")}

	record, err := s.service.Submit(context.Background(), params)
	s.Require().NoError(err)
	s.Require().NotNil(record.LogoURL)

	_, ok := s.artifacts.Get(*record.LogoURL)
	s.True(ok)
}

func (s *ServiceSuite) TestLogoUploadFailureIsNonFatal() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(s.store, failingArtifactStore{}, logger)

	params := validParams()
	params.Logo = &Logo{ContentType: "image/png", Data: []byte("logo-bytes")}

	record, err := svc.Submit(context.Background(), params)
	s.Require().NoError(err)
	s.Nil(record.LogoURL)
	s.Equal(models.StatusPending, record.Status)
}

func (s *ServiceSuite) TestInvalidLogoIsNonFatal() {
	params := validParams()
	params.Logo = &Logo{ContentType: "image/gif", Data: []byte("gif-bytes")}

	record, err := s.service.Submit(context.Background(), params)
	s.Require().NoError(err)
	s.Nil(record.LogoURL)
	s.Zero(s.artifacts.Len())
}

func (s *ServiceSuite) TestApproveStampsMetadata() {
	record, err := s.service.Submit(context.Background(), validParams())
	s.Require().NoError(err)

	reviewer := id.NewAdminID()
	now := time.Date(2026, 4, 3, 15, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(requestcontext.WithAdminID(context.Background(), reviewer), now)

	s.Require().NoError(s.service.Approve(ctx, record.ID))

	got, err := s.service.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, got.Status)
	s.Require().NotNil(got.ApprovedAt)
	s.True(got.ApprovedAt.Equal(now))
	s.Require().NotNil(got.ApprovedBy)
	s.Equal(reviewer, *got.ApprovedBy)
	s.Nil(got.RejectionReason)
}

func (s *ServiceSuite) TestRejectRequiresReason() {
	record, err := s.service.Submit(context.Background(), validParams())
	s.Require().NoError(err)

	err = s.service.Reject(context.Background(), record.ID, "   ")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	got, err := s.service.FindByID(context.Background(), record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, got.Status)
}

func (s *ServiceSuite) TestRejectStampsReason() {
	record, err := s.service.Submit(context.Background(), validParams())
	s.Require().NoError(err)

	s.Require().NoError(s.service.Reject(context.Background(), record.ID, "  incomplete documentation  "))

	got, err := s.service.FindByID(context.Background(), record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, got.Status)
	s.Require().NotNil(got.RejectionReason)
	s.Equal("incomplete documentation", *got.RejectionReason)
	s.Nil(got.ApprovedAt)
}

func (s *ServiceSuite) TestTransitionsAreOneShot() {
	record, err := s.service.Submit(context.Background(), validParams())
	s.Require().NoError(err)

	ctx := requestcontext.WithAdminID(context.Background(), id.NewAdminID())
	s.Require().NoError(s.service.Approve(ctx, record.ID))

	approved, err := s.service.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	firstApprovedAt := *approved.ApprovedAt

	// Second approve and a cross reject both fail; metadata is untouched.
	err = s.service.Approve(ctx, record.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	err = s.service.Reject(ctx, record.ID, "changed our minds")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	got, err := s.service.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, got.Status)
	s.True(got.ApprovedAt.Equal(firstApprovedAt))
	s.Nil(got.RejectionReason)
}

func (s *ServiceSuite) TestTransitionOnMissingRecord() {
	err := s.service.Approve(context.Background(), id.NewSubmissionID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.service.Reject(context.Background(), id.NewSubmissionID(), "missing")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListNewestFirstWithFilter() {
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	var ids []id.SubmissionID
	for i := 0; i < 3; i++ {
		params := validParams()
		params.OrganizationName = params.OrganizationName + string(rune('A'+i))
		record, err := s.service.Submit(requestcontext.WithTime(ctx, base.Add(time.Duration(i)*time.Hour)), params)
		s.Require().NoError(err)
		ids = append(ids, record.ID)
	}

	s.Require().NoError(s.service.Approve(ctx, ids[1]))

	all, err := s.service.List(ctx, "")
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(ids[2], all[0].ID)
	s.Equal(ids[0], all[2].ID)

	pending, err := s.service.List(ctx, models.StatusPending)
	s.Require().NoError(err)
	s.Len(pending, 2)

	approved, err := s.service.List(ctx, models.StatusApproved)
	s.Require().NoError(err)
	s.Require().Len(approved, 1)
	s.Equal(ids[1], approved[0].ID)
}

func (s *ServiceSuite) TestCountsStayConsistent() {
	ctx := context.Background()

	var ids []id.SubmissionID
	for i := 0; i < 4; i++ {
		params := validParams()
		record, err := s.service.Submit(ctx, params)
		s.Require().NoError(err)
		ids = append(ids, record.ID)
	}

	s.Require().NoError(s.service.Approve(ctx, ids[0]))
	s.Require().NoError(s.service.Reject(ctx, ids[1], "not eligible"))

	counts, err := s.service.Counts(ctx)
	s.Require().NoError(err)
	s.Equal(models.StatusCounts{Total: 4, Pending: 2, Approved: 1, Rejected: 1}, counts)
	s.Equal(counts.Total, counts.Pending+counts.Approved+counts.Rejected)
}
