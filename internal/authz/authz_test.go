package authz

import (
	"testing"

	"taskflow.dev/taskflow/internal/constants"
	"taskflow.dev/taskflow/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func TestRoleOf(t *testing.T) {
	members := []models.ProjectMember{
		{ProjectID: 1, UserID: 10, Role: constants.RoleAdmin},
		{ProjectID: 1, UserID: 20, Role: constants.RoleMember},
	}

	role, ok := RoleOf(members, 20)
	if !ok || role != constants.RoleMember {
		t.Errorf("expected member role for user 20, got %q ok=%v", role, ok)
	}

	if _, ok := RoleOf(members, 99); ok {
		t.Error("expected user 99 to not resolve to a membership")
	}
}

func TestCanView(t *testing.T) {
	if d := CanView(constants.RoleMember, true); !d.Allowed {
		t.Errorf("member should view, denied: %s", d.Reason)
	}
	if d := CanView("", false); d.Allowed {
		t.Error("non-member should not view")
	}
}

func TestCanManageProjectAndMembers(t *testing.T) {
	cases := []struct {
		role     constants.Role
		isMember bool
		want     bool
	}{
		{constants.RoleAdmin, true, true},
		{constants.RoleManager, true, false},
		{constants.RoleMember, true, false},
		{"", false, false},
	}

	for _, tc := range cases {
		if got := CanManageProject(tc.role, tc.isMember).Allowed; got != tc.want {
			t.Errorf("CanManageProject(%q, %v) = %v, want %v", tc.role, tc.isMember, got, tc.want)
		}
		if got := CanManageMembers(tc.role, tc.isMember).Allowed; got != tc.want {
			t.Errorf("CanManageMembers(%q, %v) = %v, want %v", tc.role, tc.isMember, got, tc.want)
		}
	}
}

func TestCanEditTask(t *testing.T) {
	task := &models.Task{CreatedBy: 10, AssignedTo: uintPtr(20)}

	cases := []struct {
		name     string
		role     constants.Role
		isMember bool
		userID   uint
		want     bool
	}{
		{"admin", constants.RoleAdmin, true, 99, true},
		{"manager", constants.RoleManager, true, 99, true},
		{"creator with member role", constants.RoleMember, true, 10, true},
		{"assignee with member role", constants.RoleMember, true, 20, true},
		{"unrelated member", constants.RoleMember, true, 30, false},
		{"non-member creator id", "", false, 10, false},
	}

	for _, tc := range cases {
		if got := CanEditTask(tc.role, tc.isMember, task, tc.userID).Allowed; got != tc.want {
			t.Errorf("%s: CanEditTask = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanDeleteTask(t *testing.T) {
	task := &models.Task{CreatedBy: 10, AssignedTo: uintPtr(20)}

	cases := []struct {
		name     string
		role     constants.Role
		isMember bool
		userID   uint
		want     bool
	}{
		{"admin", constants.RoleAdmin, true, 99, true},
		{"manager", constants.RoleManager, true, 99, true},
		{"creator with member role", constants.RoleMember, true, 10, true},
		{"assignee but not creator", constants.RoleMember, true, 20, false},
		{"unrelated member", constants.RoleMember, true, 30, false},
		{"non-member", "", false, 99, false},
	}

	for _, tc := range cases {
		if got := CanDeleteTask(tc.role, tc.isMember, task, tc.userID).Allowed; got != tc.want {
			t.Errorf("%s: CanDeleteTask = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDenyCarriesReason(t *testing.T) {
	d := CanDeleteTask(constants.RoleMember, true, &models.Task{CreatedBy: 1, AssignedTo: uintPtr(2)}, 2)
	if d.Allowed {
		t.Fatal("assignee without creator or manager role must not delete")
	}
	if d.Reason == "" {
		t.Error("deny decision should carry a reason")
	}
}
