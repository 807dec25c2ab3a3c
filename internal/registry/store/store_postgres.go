package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"greenreg/internal/registry/models"
	id "greenreg/pkg/domain"
	"greenreg/pkg/platform/sentinel"
)

const submissionColumns = `id, actor_type, organization_name, focus_areas, year_established,
	lga_operations, description, contact_name, contact_email, contact_phone,
	website_url, logo_url, password_hash, status, created_at, approved_at, approved_by, rejection_reason`

// PostgresStore persists submissions in the climate_actors table. The
// pending-only guard on status transitions and the terminal-metadata
// invariant are both enforced by the table itself, so a racing reviewer or a
// buggy caller cannot produce a rejected record without a reason.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, record *models.SubmissionRecord) error {
	focusAreas, err := json.Marshal(record.FocusAreas)
	if err != nil {
		return fmt.Errorf("encode focus areas: %w", err)
	}
	lgas, err := json.Marshal(record.LGAOperations)
	if err != nil {
		return fmt.Errorf("encode lga operations: %w", err)
	}

	query := `INSERT INTO climate_actors (` + submissionColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(record.ID),
		record.ActorType.String(),
		record.OrganizationName,
		focusAreas,
		record.YearEstablished,
		lgas,
		record.Description,
		record.ContactName,
		record.ContactEmail,
		record.ContactPhone,
		nullableString(record.WebsiteURL),
		record.LogoURL,
		record.CredentialHash,
		record.Status.String(),
		record.CreatedAt,
		record.ApprovedAt,
		approvedByArg(record.ApprovedBy),
		record.RejectionReason,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, submissionID id.SubmissionID) (*models.SubmissionRecord, error) {
	query := `SELECT ` + submissionColumns + ` FROM climate_actors WHERE id = $1`

	record, err := scanSubmission(s.db.QueryRowContext(ctx, query, uuid.UUID(submissionID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.Status) ([]*models.SubmissionRecord, error) {
	query := `SELECT ` + submissionColumns + ` FROM climate_actors`
	args := []any{}
	if filter != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.String())
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []*models.SubmissionRecord
	for rows.Next() {
		record, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return out, nil
}

// UpdateStatus applies the transition only while the record is still
// pending. Zero rows affected is disambiguated by a follow-up existence
// check: missing record vs already-terminal record.
func (s *PostgresStore) UpdateStatus(ctx context.Context, submissionID id.SubmissionID, transition Transition) error {
	query := `UPDATE climate_actors
	          SET status = $2, approved_at = $3, approved_by = $4, rejection_reason = $5
	          WHERE id = $1 AND status = 'pending'`

	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(submissionID),
		transition.To.String(),
		transition.ApprovedAt,
		approvedByArg(transition.ApprovedBy),
		transition.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	if affected > 0 {
		return nil
	}

	if _, err := s.FindByID(ctx, submissionID); err != nil {
		return err
	}
	return sentinel.ErrInvalidState
}

func (s *PostgresStore) Counts(ctx context.Context) (models.StatusCounts, error) {
	query := `SELECT status, COUNT(*) FROM climate_actors GROUP BY status`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return models.StatusCounts{}, fmt.Errorf("count submissions: %w", err)
	}
	defer rows.Close()

	var counts models.StatusCounts
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return models.StatusCounts{}, fmt.Errorf("count submissions: %w", err)
		}
		switch models.Status(status) {
		case models.StatusPending:
			counts.Pending = n
		case models.StatusApproved:
			counts.Approved = n
		case models.StatusRejected:
			counts.Rejected = n
		}
		counts.Total += n
	}
	if err := rows.Err(); err != nil {
		return models.StatusCounts{}, fmt.Errorf("count submissions: %w", err)
	}
	return counts, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSubmission(row scannable) (*models.SubmissionRecord, error) {
	var (
		record          models.SubmissionRecord
		rawID           uuid.UUID
		actorType       string
		focusAreas      []byte
		lgas            []byte
		yearEstablished sql.NullInt64
		websiteURL      sql.NullString
		logoURL         sql.NullString
		status          string
		approvedAt      sql.NullTime
		approvedBy      uuid.NullUUID
		rejectionReason sql.NullString
	)

	err := row.Scan(&rawID, &actorType, &record.OrganizationName, &focusAreas, &yearEstablished,
		&lgas, &record.Description, &record.ContactName, &record.ContactEmail, &record.ContactPhone,
		&websiteURL, &logoURL, &record.CredentialHash, &status, &record.CreatedAt,
		&approvedAt, &approvedBy, &rejectionReason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}

	record.ID = id.SubmissionID(rawID)
	record.ActorType = models.ActorType(actorType)
	record.Status = models.Status(status)
	if err := json.Unmarshal(focusAreas, &record.FocusAreas); err != nil {
		return nil, fmt.Errorf("decode focus areas: %w", err)
	}
	if err := json.Unmarshal(lgas, &record.LGAOperations); err != nil {
		return nil, fmt.Errorf("decode lga operations: %w", err)
	}
	if yearEstablished.Valid {
		year := int(yearEstablished.Int64)
		record.YearEstablished = &year
	}
	if websiteURL.Valid {
		record.WebsiteURL = websiteURL.String
	}
	if logoURL.Valid {
		record.LogoURL = &logoURL.String
	}
	if approvedAt.Valid {
		record.ApprovedAt = &approvedAt.Time
	}
	if approvedBy.Valid {
		adminID := id.AdminID(approvedBy.UUID)
		record.ApprovedBy = &adminID
	}
	if rejectionReason.Valid {
		record.RejectionReason = &rejectionReason.String
	}
	return &record, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func approvedByArg(adminID *id.AdminID) any {
	if adminID == nil {
		return nil
	}
	return uuid.UUID(*adminID)
}
