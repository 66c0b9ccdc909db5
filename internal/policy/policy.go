// Package policy decides which roles may perform which workflow actions and
// which invoices a user may see.
package policy

import (
	"github.com/faturaflow/faturaflow-api/internal/models"
)

var actionRoles = map[models.WorkflowAction][]models.Role{
	models.ActionCreate:  {models.RoleMuhasebe, models.RoleAdmin},
	models.ActionAssign:  {models.RoleMuhasebe, models.RoleAdmin},
	models.ActionReturn:  {models.RoleMuhasebe, models.RoleAdmin},
	models.ActionArchive: {models.RoleMuhasebe, models.RoleAdmin},
	models.ActionProcess: {models.RoleOperasyon, models.RoleOpLeader, models.RoleAdmin},
}

// CanPerform reports whether role may perform action
func CanPerform(role models.Role, action models.WorkflowAction) bool {
	for _, r := range actionRoles[action] {
		if r == role {
			return true
		}
	}
	return false
}

// CanManageOrganization reports whether role may administer departments,
// projects, users and reject reasons
func CanManageOrganization(role models.Role) bool {
	return role == models.RoleAdmin
}

// Scope restricts an invoice listing. The zero value sees everything.
type Scope struct {
	Restricted bool
	UserID     uint
	ProjectID  *uint
}

// All returns an unrestricted scope
func All() Scope {
	return Scope{}
}

// VisibilityFor returns the invoices user may see. OPERASYON users see
// invoices assigned to them or to their project; everyone else sees all.
func VisibilityFor(user *models.User) Scope {
	if user == nil || user.Role != models.RoleOperasyon {
		return All()
	}
	return Scope{Restricted: true, UserID: user.ID, ProjectID: user.ProjectID}
}

// Allows reports whether inv falls within the scope
func (s Scope) Allows(inv *models.Invoice) bool {
	if !s.Restricted {
		return true
	}
	if inv.AssignedToID != nil && *inv.AssignedToID == s.UserID {
		return true
	}
	return s.ProjectID != nil && inv.ProjectID != nil && *inv.ProjectID == *s.ProjectID
}
