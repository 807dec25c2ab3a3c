// Package store persists climate-actor submissions.
package store

import (
	"context"
	"time"

	"greenreg/internal/registry/models"
	id "greenreg/pkg/domain"
)

// Transition carries the terminal-state metadata applied together with a
// status change. Exactly one of the approval pair or the rejection reason is
// set, matching which terminal state To names.
type Transition struct {
	To              models.Status
	ApprovedAt      *time.Time
	ApprovedBy      *id.AdminID
	RejectionReason *string
}

// Store is the submission persistence contract.
//
// UpdateStatus is the correctness boundary against two reviewers racing on
// the same record: the status change only applies while the record is still
// pending, enforced atomically by the store itself. A record that exists but
// is no longer pending yields sentinel.ErrInvalidState; a missing record
// yields sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, record *models.SubmissionRecord) error
	FindByID(ctx context.Context, submissionID id.SubmissionID) (*models.SubmissionRecord, error)

	// List returns submissions newest-created first. An empty filter means all.
	List(ctx context.Context, filter models.Status) ([]*models.SubmissionRecord, error)

	UpdateStatus(ctx context.Context, submissionID id.SubmissionID, transition Transition) error

	// Counts is O(1) from cache or index, never a table scan per call.
	Counts(ctx context.Context) (models.StatusCounts, error)
}
