// Package policy answers capability questions about an authenticated
// identity. Predicates are pure and recomputed on every check: role is part
// of the identity, and the identity only changes through session manager
// transitions, so there is nothing to cache.
package policy

import (
	"greenreg/internal/session/models"
	id "greenreg/pkg/domain"
)

// CanCreateAdmins reports whether the identity may create administrator
// accounts. Only super admins may.
func CanCreateAdmins(identity *models.Identity) bool {
	return identity != nil && identity.Role == id.RoleSuperAdmin
}
