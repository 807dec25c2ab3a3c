package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenreg/internal/registry/models"
	id "greenreg/pkg/domain"
	"greenreg/pkg/platform/sentinel"
)

func newPostgresWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgres(db), mock, db
}

var submissionCols = []string{
	"id", "actor_type", "organization_name", "focus_areas", "year_established",
	"lga_operations", "description", "contact_name", "contact_email", "contact_phone",
	"website_url", "logo_url", "password_hash", "status", "created_at", "approved_at", "approved_by", "rejection_reason",
}

func TestPostgresFindByID(t *testing.T) {
	store, mock, db := newPostgresWithMock(t)
	defer db.Close()

	submissionID := uuid.New()
	createdAt := time.Now()
	rows := sqlmock.NewRows(submissionCols).
		AddRow(submissionID, "non_state", "Kano Green Initiative", []byte(`["Renewable Energy"]`), 2019,
			[]byte(`["Dala","Nassarawa"]`), "Solar projects", "Amina Bello", "amina@kgi.org.ng", "+2348012345678",
			nil, nil, "hash", "pending", createdAt, nil, nil, nil)

	mock.ExpectQuery(`SELECT .+ FROM climate_actors WHERE id = \$1`).
		WithArgs(submissionID).
		WillReturnRows(rows)

	got, err := store.FindByID(context.Background(), id.SubmissionID(submissionID))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, []string{"Renewable Energy"}, got.FocusAreas)
	assert.Equal(t, []string{"Dala", "Nassarawa"}, got.LGAOperations)
	require.NotNil(t, got.YearEstablished)
	assert.Equal(t, 2019, *got.YearEstablished)
	assert.Empty(t, got.WebsiteURL)
	assert.Nil(t, got.LogoURL)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	store, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM climate_actors WHERE id = \$1`).
		WillReturnError(sql.ErrNoRows)

	_, err := store.FindByID(context.Background(), id.NewSubmissionID())
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateStatusAppliesWhilePending(t *testing.T) {
	store, mock, db := newPostgresWithMock(t)
	defer db.Close()

	submissionID := id.NewSubmissionID()
	now := time.Now()
	reviewer := id.NewAdminID()

	mock.ExpectExec(`UPDATE climate_actors\s+SET status = \$2, approved_at = \$3, approved_by = \$4, rejection_reason = \$5\s+WHERE id = \$1 AND status = 'pending'`).
		WithArgs(uuid.UUID(submissionID), "approved", &now, uuid.UUID(reviewer), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateStatus(context.Background(), submissionID,
		Transition{To: models.StatusApproved, ApprovedAt: &now, ApprovedBy: &reviewer})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateStatusDisambiguatesZeroRows(t *testing.T) {
	store, mock, db := newPostgresWithMock(t)
	defer db.Close()

	submissionID := id.NewSubmissionID()
	reason := "duplicate"
	transition := Transition{To: models.StatusRejected, RejectionReason: &reason}

	// Record exists but is no longer pending: guard refused the update.
	mock.ExpectExec(`UPDATE climate_actors`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows(submissionCols).
		AddRow(uuid.UUID(submissionID), "non_state", "Org", []byte(`[]`), nil,
			[]byte(`[]`), "d", "c", "e", "p",
			nil, nil, "hash", "approved", time.Now(), time.Now(), nil, nil)
	mock.ExpectQuery(`SELECT .+ FROM climate_actors WHERE id = \$1`).
		WillReturnRows(rows)

	err := store.UpdateStatus(context.Background(), submissionID, transition)
	require.ErrorIs(t, err, sentinel.ErrInvalidState)

	// Record does not exist at all.
	mock.ExpectExec(`UPDATE climate_actors`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM climate_actors WHERE id = \$1`).
		WillReturnError(sql.ErrNoRows)

	err = store.UpdateStatus(context.Background(), submissionID, transition)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCounts(t *testing.T) {
	store, mock, db := newPostgresWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("pending", 3).
		AddRow("approved", 2).
		AddRow("rejected", 1)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM climate_actors GROUP BY status`).
		WillReturnRows(rows)

	counts, err := store.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCounts{Total: 6, Pending: 3, Approved: 2, Rejected: 1}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}
