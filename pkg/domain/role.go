package domain

import dErrors "greenreg/pkg/domain-errors"

// Role is the admin authorization role. The portal models exactly three
// fixed roles; there is no tenant- or resource-scoped authorization.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleContentAdmin Role = "content_admin"
	RoleReportsAdmin Role = "reports_admin"
)

// ParseRole validates and returns a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown role: %s", s)
	}
	return r, nil
}

// IsValid reports whether the role is one of the three known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleContentAdmin, RoleReportsAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
