package handler

import (
	"time"

	adminmodels "greenreg/internal/admin/models"
	"greenreg/internal/session/models"
)

// SessionResponse is the HTTP response body for login and session lookup.
type SessionResponse struct {
	Admin            IdentityResponse `json:"admin"`
	RemainingSeconds int64            `json:"remaining_seconds"`
}

// IdentityResponse is the identity snapshot exposed over HTTP.
type IdentityResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func FromSession(identity *models.Identity, remaining time.Duration) SessionResponse {
	return SessionResponse{
		Admin: IdentityResponse{
			ID:       identity.ID.String(),
			Email:    identity.Email,
			FullName: identity.FullName,
			Role:     identity.Role.String(),
		},
		RemainingSeconds: int64(remaining.Seconds()),
	}
}

// AccountResponse is the HTTP response body for admin registration.
type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromAccount(account *adminmodels.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID.String(),
		Email:     account.Email,
		FullName:  account.FullName,
		Role:      account.Role.String(),
		Active:    account.Active,
		CreatedAt: account.CreatedAt,
	}
}
