// Package models holds the climate-actor registry records.
package models

import (
	"time"

	id "greenreg/pkg/domain"
)

// Status is the review state of a submission. Pending is the sole initial
// state; approved and rejected are terminal with no transition out.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsTerminal reports whether no further transition is defined.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ActorType distinguishes government bodies from NGOs, private sector and
// other non-state actors.
type ActorType string

const (
	ActorTypeState    ActorType = "state"
	ActorTypeNonState ActorType = "non_state"
)

func (t ActorType) IsValid() bool {
	return t == ActorTypeState || t == ActorTypeNonState
}

func (t ActorType) String() string { return string(t) }

// SubmissionRecord is an applicant's registry entry. Created by the public
// registration form with status pending; mutated only by a reviewer action
// transitioning it to a terminal state.
//
// Invariants held across every transition: rejection-reason is non-empty iff
// rejected; approved-at is set iff approved.
type SubmissionRecord struct {
	ID               id.SubmissionID
	ActorType        ActorType
	OrganizationName string
	FocusAreas       []string
	YearEstablished  *int
	LGAOperations    []string
	Description      string
	ContactName      string
	ContactEmail     string
	ContactPhone     string
	WebsiteURL       string
	LogoURL          *string
	CredentialHash   string
	Status           Status
	CreatedAt        time.Time
	ApprovedAt       *time.Time
	ApprovedBy       *id.AdminID
	RejectionReason  *string
}

// Clone returns a deep copy so store callers can't mutate shared state.
func (r *SubmissionRecord) Clone() *SubmissionRecord {
	if r == nil {
		return nil
	}
	clone := *r
	clone.FocusAreas = append([]string(nil), r.FocusAreas...)
	clone.LGAOperations = append([]string(nil), r.LGAOperations...)
	if r.YearEstablished != nil {
		year := *r.YearEstablished
		clone.YearEstablished = &year
	}
	if r.LogoURL != nil {
		url := *r.LogoURL
		clone.LogoURL = &url
	}
	if r.ApprovedAt != nil {
		at := *r.ApprovedAt
		clone.ApprovedAt = &at
	}
	if r.ApprovedBy != nil {
		by := *r.ApprovedBy
		clone.ApprovedBy = &by
	}
	if r.RejectionReason != nil {
		reason := *r.RejectionReason
		clone.RejectionReason = &reason
	}
	return &clone
}

// StatusCounts is the derived per-status view. Total always equals
// Pending+Approved+Rejected.
type StatusCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
