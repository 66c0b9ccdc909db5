package policy

import (
	"testing"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestCanPerform(t *testing.T) {
	tests := []struct {
		role   models.Role
		action models.WorkflowAction
		want   bool
	}{
		{models.RoleMuhasebe, models.ActionCreate, true},
		{models.RoleMuhasebe, models.ActionAssign, true},
		{models.RoleMuhasebe, models.ActionReturn, true},
		{models.RoleMuhasebe, models.ActionArchive, true},
		{models.RoleMuhasebe, models.ActionProcess, false},
		{models.RoleOperasyon, models.ActionProcess, true},
		{models.RoleOperasyon, models.ActionAssign, false},
		{models.RoleOperasyon, models.ActionCreate, false},
		{models.RoleOpLeader, models.ActionProcess, true},
		{models.RoleOpLeader, models.ActionArchive, false},
		{models.RoleAdmin, models.ActionCreate, true},
		{models.RoleAdmin, models.ActionProcess, true},
		{models.RoleAdmin, models.ActionArchive, true},
		{models.Role("GUEST"), models.ActionCreate, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.role, tt.action))
		})
	}
}

func TestVisibilityFor(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	assert.False(t, VisibilityFor(admin).Restricted)

	leader := &models.User{ID: 2, Role: models.RoleOpLeader, ProjectID: uintPtr(5)}
	assert.False(t, VisibilityFor(leader).Restricted)

	op := &models.User{ID: 3, Role: models.RoleOperasyon, ProjectID: uintPtr(5)}
	scope := VisibilityFor(op)
	assert.True(t, scope.Restricted)

	assert.True(t, scope.Allows(&models.Invoice{ProjectID: uintPtr(5)}))
	assert.True(t, scope.Allows(&models.Invoice{AssignedToID: uintPtr(3)}))
	assert.False(t, scope.Allows(&models.Invoice{ProjectID: uintPtr(6)}))
	assert.False(t, scope.Allows(&models.Invoice{}))
}

func TestVisibilityFor_OperatorWithoutProject(t *testing.T) {
	op := &models.User{ID: 3, Role: models.RoleOperasyon}
	scope := VisibilityFor(op)

	assert.True(t, scope.Allows(&models.Invoice{AssignedToID: uintPtr(3)}))
	assert.False(t, scope.Allows(&models.Invoice{ProjectID: uintPtr(5)}))
}

func TestCanManageOrganization(t *testing.T) {
	assert.True(t, CanManageOrganization(models.RoleAdmin))
	assert.False(t, CanManageOrganization(models.RoleMuhasebe))
}
