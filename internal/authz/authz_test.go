package authz

import (
	"testing"

	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/google/uuid"
)

func TestRoleChecks(t *testing.T) {
	cases := []struct {
		role        models.Role
		admin       bool
		manageRoles bool
	}{
		{models.RoleCitizen, false, false},
		{models.RoleMunicipalAdmin, true, false},
		{models.RoleSuperAdmin, true, true},
		{models.Role("guest"), false, false},
	}
	for _, tc := range cases {
		p := Principal{ID: uuid.New(), Role: tc.role}
		if got := CanManageReports(p); got != tc.admin {
			t.Errorf("CanManageReports(%s) = %v, want %v", tc.role, got, tc.admin)
		}
		if got := CanManageCatalog(p); got != tc.admin {
			t.Errorf("CanManageCatalog(%s) = %v, want %v", tc.role, got, tc.admin)
		}
		if got := CanManageRoles(p); got != tc.manageRoles {
			t.Errorf("CanManageRoles(%s) = %v, want %v", tc.role, got, tc.manageRoles)
		}
	}
}

func TestOwnership(t *testing.T) {
	owner := Principal{ID: uuid.New(), Role: models.RoleCitizen}
	other := Principal{ID: uuid.New(), Role: models.RoleCitizen}
	admin := Principal{ID: uuid.New(), Role: models.RoleMunicipalAdmin}
	report := &models.Report{ID: uuid.New(), UserID: owner.ID}

	if !IsOwner(owner, report) || !CanViewReport(owner, report) {
		t.Error("owner should own and view the report")
	}
	if IsOwner(other, report) || CanViewReport(other, report) {
		t.Error("unrelated citizen must not view the report")
	}
	if IsOwner(admin, report) {
		t.Error("admin is not the owner")
	}
	if !CanViewReport(admin, report) {
		t.Error("admin should view any report")
	}
	if IsOwner(Principal{}, &models.Report{}) {
		t.Error("zero principal must never own anything")
	}
	if IsOwner(owner, nil) {
		t.Error("nil report has no owner")
	}
}
