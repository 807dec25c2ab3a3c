// Package adapters bridges the admin directory to the session manager
// without either package importing the other's internals.
package adapters

import (
	"context"

	"greenreg/internal/admin"
	adminmodels "greenreg/internal/admin/models"
	sessionmodels "greenreg/internal/session/models"
	id "greenreg/pkg/domain"
	dErrors "greenreg/pkg/domain-errors"
)

// Directory adapts admin.Service to the session manager's collaborator
// interface, narrowing full accounts to the identity fields a session needs.
type Directory struct {
	admins *admin.Service
}

func NewDirectory(admins *admin.Service) *Directory {
	return &Directory{admins: admins}
}

func (d *Directory) Verify(ctx context.Context, email, password string) (sessionmodels.Identity, error) {
	account, err := d.admins.VerifyCredential(ctx, email, password)
	if err != nil {
		return sessionmodels.Identity{}, err
	}
	return toIdentity(account), nil
}

// Revalidate confirms the account still exists and is still active. A
// deactivated account is a forbidden error so restore treats it exactly like
// a vanished one: purge and start anonymous.
func (d *Directory) Revalidate(ctx context.Context, adminID id.AdminID) (sessionmodels.Identity, error) {
	account, err := d.admins.FindByID(ctx, adminID)
	if err != nil {
		return sessionmodels.Identity{}, err
	}
	if !account.Active {
		return sessionmodels.Identity{}, dErrors.New(dErrors.CodeForbidden, "account is inactive")
	}
	return toIdentity(account), nil
}

func (d *Directory) TouchLastLogin(ctx context.Context, adminID id.AdminID) error {
	return d.admins.TouchLastLogin(ctx, adminID)
}

func toIdentity(account *adminmodels.Account) sessionmodels.Identity {
	return sessionmodels.Identity{
		ID:       account.ID,
		Email:    account.Email,
		FullName: account.FullName,
		Role:     account.Role,
		Active:   account.Active,
	}
}
