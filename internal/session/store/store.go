// Package store persists the session record: the signed identity token and
// the established-at timestamp. The two are one logical record — they are
// written and purged together, never one without the other.
package store

import (
	"context"
	"time"
)

// RecordStore is the durable home of the session record for one browsing
// context. Implementations return pkg/platform/sentinel errors.
type RecordStore interface {
	// Save writes token and established-at as one unit, replacing any
	// previous record.
	Save(ctx context.Context, signedToken string, establishedAt time.Time) error

	// Load returns the stored record, or sentinel.ErrNotFound when no
	// record exists.
	Load(ctx context.Context) (signedToken string, establishedAt time.Time, err error)

	// Touch refreshes established-at on an existing record. A Touch against
	// a purged record is a no-op; it must never create a timestamp without
	// an identity.
	Touch(ctx context.Context, establishedAt time.Time) error

	// Purge removes the whole record atomically.
	Purge(ctx context.Context) error
}
