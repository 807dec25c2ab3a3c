package models

import (
	"time"

	id "greenreg/pkg/domain"
)

// Identity is the authenticated principal. Owned exclusively by the session
// manager while a session is live; sourced from the admin directory.
type Identity struct {
	ID       id.AdminID `json:"id"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
	Role     id.Role    `json:"role"`
	Active   bool       `json:"is_active"`
}

// Record is the persisted session state: the identity plus the moment the
// session was last established or renewed. Identity and timestamp live and
// die together; the record store purges them as one unit.
type Record struct {
	Identity      Identity
	EstablishedAt time.Time
}

// EndReason distinguishes how a session ended. The end state is always
// Anonymous; the reason only drives user-facing messaging.
type EndReason string

const (
	EndReasonUser         EndReason = "user"
	EndReasonTimeout      EndReason = "timeout"
	EndReasonRevalidation EndReason = "revalidation"
)

func (r EndReason) String() string { return string(r) }
