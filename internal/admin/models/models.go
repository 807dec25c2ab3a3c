package models

import (
	"time"

	id "greenreg/pkg/domain"
)

// Account is an administrator record as persisted in the directory. The
// password hash never leaves this package's consumers; the session manager
// only ever sees the derived Identity.
type Account struct {
	ID           id.AdminID
	Email        string
	FullName     string
	PasswordHash string
	Role         id.Role
	Active       bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// Clone returns a copy so store callers can't mutate shared state.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	if a.LastLogin != nil {
		t := *a.LastLogin
		cp.LastLogin = &t
	}
	return &cp
}
