package auth

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		value string
		role  Role
		ok    bool
	}{
		{"Admin", RoleAdmin, true},
		{"User", RoleUser, true},
		{"Worker", RoleWorker, true},
		{"admin", "", false},
		{"", "", false},
		{"Supervisor", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			role, ok := ParseRole(tt.value)
			if ok != tt.ok || role != tt.role {
				t.Errorf("Expected (%q, %v), got (%q, %v)", tt.role, tt.ok, role, ok)
			}
		})
	}
}

func TestRoleHomePath(t *testing.T) {
	if RoleAdmin.HomePath() != "/admin/dashboard" {
		t.Errorf("Expected admin home to be /admin/dashboard")
	}
	for _, r := range []Role{RoleUser, RoleWorker} {
		if r.HomePath() != "/dashboard" {
			t.Errorf("Expected %s home to be /dashboard", r)
		}
	}
}

func TestIdentityHelpers(t *testing.T) {
	var nilIdentity *Identity
	if nilIdentity.HasSubject() || nilIdentity.HasExpiry() || nilIdentity.IsAdmin() {
		t.Errorf("Expected nil identity helpers to report false")
	}

	id := &Identity{Role: RoleAdmin, SubjectID: "u1", ExpiresAt: 10}
	if !id.HasSubject() || !id.HasExpiry() || !id.IsAdmin() {
		t.Errorf("Expected helpers to report true for %+v", id)
	}
}

func TestPolicy(t *testing.T) {
	policy := DefaultPolicy()
	if roles := policy.RequiredRoles(GroupAdmin); len(roles) != 1 || roles[0] != RoleAdmin {
		t.Errorf("Expected admin group to allow only Admin, got %v", roles)
	}
	if roles := policy.RequiredRoles(GroupGeneral); len(roles) != 3 {
		t.Errorf("Expected general group to allow every role, got %v", roles)
	}
	if roles := policy.RequiredRoles("reports"); roles != nil {
		t.Errorf("Expected unknown group to have no allow-list, got %v", roles)
	}
	if (Snapshot{}).Authenticated() {
		t.Errorf("Expected empty snapshot to be anonymous")
	}
}
