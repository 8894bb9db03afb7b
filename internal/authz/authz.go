// Package authz holds the role and ownership rules. Handlers and services
// call these checks instead of comparing roles inline.
package authz

import (
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/google/uuid"
)

// Principal is the signed-in account acting on a request.
type Principal struct {
	ID       uuid.UUID   `json:"id"`
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
}

func IsAdmin(p Principal) bool {
	return p.Role == models.RoleMunicipalAdmin || p.Role == models.RoleSuperAdmin
}

// CanManageReports gates status changes, assignment and the dashboard.
func CanManageReports(p Principal) bool {
	return IsAdmin(p)
}

// CanManageCatalog gates rewards, educational content and manual credits.
func CanManageCatalog(p Principal) bool {
	return IsAdmin(p)
}

func CanManageRoles(p Principal) bool {
	return p.Role == models.RoleSuperAdmin
}

func IsOwner(p Principal, r *models.Report) bool {
	return r != nil && p.ID != uuid.Nil && r.UserID == p.ID
}

// CanViewReport covers the audit trail and posting comments.
func CanViewReport(p Principal, r *models.Report) bool {
	return IsOwner(p, r) || CanManageReports(p)
}
