// Package audit records who did what to which record, append-only. Session
// logins and review decisions emit events here; emitting is always
// best-effort and never fails the operation that triggered it.
package audit

import "time"

// Action names follow subject_verb so the trail reads chronologically.
type Action string

const (
	ActionAdminLoggedIn       Action = "admin_logged_in"
	ActionAdminLoggedOut      Action = "admin_logged_out"
	ActionSessionTimedOut     Action = "session_timed_out"
	ActionSessionInvalidated  Action = "session_invalidated"
	ActionAdminCreated        Action = "admin_created"
	ActionSubmissionReceived  Action = "submission_received"
	ActionSubmissionApproved  Action = "submission_approved"
	ActionSubmissionRejected  Action = "submission_rejected"
)

// Event is one audit trail entry.
type Event struct {
	Actor     string            `json:"actor,omitempty"`
	Action    Action            `json:"action"`
	Subject   string            `json:"subject,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
