// Package store persists administrator accounts. Implementations return
// pkg/platform/sentinel errors; the admin service translates them.
package store

import (
	"context"
	"time"

	"greenreg/internal/admin/models"
	id "greenreg/pkg/domain"
)

// Store is the admin directory contract.
type Store interface {
	// Create inserts a new account. Returns sentinel.ErrConflict when an
	// account with the same email already exists.
	Create(ctx context.Context, account *models.Account) error

	// FindByID returns sentinel.ErrNotFound when no account exists.
	FindByID(ctx context.Context, adminID id.AdminID) (*models.Account, error)

	// FindByEmail returns sentinel.ErrNotFound when no account exists.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// TouchLastLogin records the most recent successful login. Best-effort
	// from the caller's point of view; a failure never fails the login.
	TouchLastLogin(ctx context.Context, adminID id.AdminID, at time.Time) error
}
