package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"greenreg/internal/session/models"
	id "greenreg/pkg/domain"
)

func TestCanCreateAdmins(t *testing.T) {
	tests := []struct {
		role id.Role
		want bool
	}{
		{id.RoleSuperAdmin, true},
		{id.RoleContentAdmin, false},
		{id.RoleReportsAdmin, false},
	}
	for _, tt := range tests {
		identity := &models.Identity{Role: tt.role}
		assert.Equal(t, tt.want, CanCreateAdmins(identity), "role %s", tt.role)
	}

	assert.False(t, CanCreateAdmins(nil), "anonymous context can never create admins")
}
