package handler

import (
	"strings"

	id "greenreg/pkg/domain"
	dErrors "greenreg/pkg/domain-errors"
)

// LoginRequest is the HTTP request body for POST /admin/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks presence only; credential quality is the directory's call.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	return nil
}

// RegisterRequest is the HTTP request body for POST /admin/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`

	parsedRole id.Role
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "full_name is required")
	}
	if r.Role == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "role is required")
	}
	role, err := id.ParseRole(r.Role)
	if err != nil {
		return err
	}
	r.parsedRole = role
	return nil
}

// ParsedRole returns the validated role.
func (r *RegisterRequest) ParsedRole() id.Role {
	return r.parsedRole
}
