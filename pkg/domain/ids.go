// Package domain holds shared domain primitives: typed identifiers and the
// admin role enumeration. Typed IDs prevent cross-entity assignment at
// compile time; parsing enforces validity at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "greenreg/pkg/domain-errors"
)

// AdminID identifies an administrator account.
type AdminID uuid.UUID

// SubmissionID identifies a climate-actor registry submission.
type SubmissionID uuid.UUID

// NewAdminID returns a fresh random AdminID.
func NewAdminID() AdminID {
	return AdminID(uuid.New())
}

// NewSubmissionID returns a fresh random SubmissionID.
func NewSubmissionID() SubmissionID {
	return SubmissionID(uuid.New())
}

// ParseAdminID validates and returns an AdminID.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseAdminID(s string) (AdminID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return AdminID{}, err
	}
	return AdminID(u), nil
}

// ParseSubmissionID validates and returns a SubmissionID.
func ParseSubmissionID(s string) (SubmissionID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return SubmissionID{}, err
	}
	return SubmissionID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}

func (id AdminID) String() string { return uuid.UUID(id).String() }
func (id AdminID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id SubmissionID) String() string { return uuid.UUID(id).String() }
func (id SubmissionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
