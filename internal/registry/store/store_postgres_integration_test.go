//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"greenreg/internal/registry/models"
	id "greenreg/pkg/domain"
	"greenreg/pkg/platform/sentinel"
	"greenreg/pkg/testutil/containers"
)

func TestPostgresStoreIntegration(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	ctx := context.Background()
	store := NewPostgres(pc.DB)

	reset := func(t *testing.T) {
		t.Helper()
		require.NoError(t, pc.Truncate(ctx, "climate_actors"))
	}

	newRecord := func() *models.SubmissionRecord {
		year := 2019
		return &models.SubmissionRecord{
			ID:               id.NewSubmissionID(),
			ActorType:        models.ActorTypeNonState,
			OrganizationName: "Kano Green Initiative",
			FocusAreas:       []string{"Renewable Energy", "Waste Management"},
			YearEstablished:  &year,
			LGAOperations:    []string{"Dala", "Nassarawa"},
			Description:      "Community solar installations.",
			ContactName:      "Amina Bello",
			ContactEmail:     "amina@kgi.org.ng",
			ContactPhone:     "+2348012345678",
			WebsiteURL:       "https://kgi.org.ng",
			CredentialHash:   "bcrypt-hash",
			Status:           models.StatusPending,
			CreatedAt:        time.Now().UTC().Truncate(time.Millisecond),
		}
	}

	t.Run("create and find round trip", func(t *testing.T) {
		reset(t)
		record := newRecord()
		require.NoError(t, store.Create(ctx, record))

		got, err := store.FindByID(ctx, record.ID)
		require.NoError(t, err)
		require.Equal(t, record.OrganizationName, got.OrganizationName)
		require.Equal(t, record.FocusAreas, got.FocusAreas)
		require.Equal(t, record.LGAOperations, got.LGAOperations)
		require.NotNil(t, got.YearEstablished)
		require.Equal(t, 2019, *got.YearEstablished)
		require.Equal(t, models.StatusPending, got.Status)
		require.Nil(t, got.ApprovedAt)
		require.Nil(t, got.RejectionReason)

		require.ErrorIs(t, store.Create(ctx, record), sentinel.ErrConflict)
	})

	t.Run("guarded update is one shot", func(t *testing.T) {
		reset(t)
		record := newRecord()
		require.NoError(t, store.Create(ctx, record))

		now := time.Now().UTC().Truncate(time.Millisecond)
		reviewer := id.NewAdminID()
		approve := Transition{To: models.StatusApproved, ApprovedAt: &now, ApprovedBy: &reviewer}
		require.NoError(t, store.UpdateStatus(ctx, record.ID, approve))

		got, err := store.FindByID(ctx, record.ID)
		require.NoError(t, err)
		require.Equal(t, models.StatusApproved, got.Status)
		require.NotNil(t, got.ApprovedAt)
		require.NotNil(t, got.ApprovedBy)
		require.Equal(t, reviewer, *got.ApprovedBy)

		// The row-level guard refuses both a re-approve and a cross reject.
		require.ErrorIs(t, store.UpdateStatus(ctx, record.ID, approve), sentinel.ErrInvalidState)

		reason := "late submission"
		reject := Transition{To: models.StatusRejected, RejectionReason: &reason}
		require.ErrorIs(t, store.UpdateStatus(ctx, record.ID, reject), sentinel.ErrInvalidState)

		require.ErrorIs(t, store.UpdateStatus(ctx, id.NewSubmissionID(), approve), sentinel.ErrNotFound)
	})

	t.Run("reject stamps reason", func(t *testing.T) {
		reset(t)
		record := newRecord()
		require.NoError(t, store.Create(ctx, record))

		reason := "incomplete documentation"
		require.NoError(t, store.UpdateStatus(ctx, record.ID,
			Transition{To: models.StatusRejected, RejectionReason: &reason}))

		got, err := store.FindByID(ctx, record.ID)
		require.NoError(t, err)
		require.Equal(t, models.StatusRejected, got.Status)
		require.NotNil(t, got.RejectionReason)
		require.Equal(t, reason, *got.RejectionReason)
		require.Nil(t, got.ApprovedAt)
	})

	t.Run("list newest first with filter", func(t *testing.T) {
		reset(t)
		base := time.Now().UTC().Truncate(time.Millisecond)

		var ids []id.SubmissionID
		for i := 0; i < 3; i++ {
			record := newRecord()
			record.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, store.Create(ctx, record))
			ids = append(ids, record.ID)
		}

		now := base.Add(time.Hour)
		require.NoError(t, store.UpdateStatus(ctx, ids[0],
			Transition{To: models.StatusApproved, ApprovedAt: &now}))

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, ids[2], all[0].ID)
		require.Equal(t, ids[0], all[2].ID)

		pending, err := store.List(ctx, models.StatusPending)
		require.NoError(t, err)
		require.Len(t, pending, 2)
	})

	t.Run("counts group by status", func(t *testing.T) {
		reset(t)

		var ids []id.SubmissionID
		for i := 0; i < 4; i++ {
			record := newRecord()
			require.NoError(t, store.Create(ctx, record))
			ids = append(ids, record.ID)
		}

		now := time.Now().UTC()
		require.NoError(t, store.UpdateStatus(ctx, ids[0],
			Transition{To: models.StatusApproved, ApprovedAt: &now}))
		reason := "not eligible"
		require.NoError(t, store.UpdateStatus(ctx, ids[1],
			Transition{To: models.StatusRejected, RejectionReason: &reason}))

		counts, err := store.Counts(ctx)
		require.NoError(t, err)
		require.Equal(t, models.StatusCounts{Total: 4, Pending: 2, Approved: 1, Rejected: 1}, counts)
	})

	t.Run("terminal metadata constraint enforced by schema", func(t *testing.T) {
		reset(t)
		record := newRecord()
		record.Status = models.StatusRejected // no reason: violates the check
		require.Error(t, store.Create(ctx, record))
	})
}
