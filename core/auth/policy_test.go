package auth_test

import (
	"testing"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/user"
	testutil "github.com/darasadev/darasa/tests"
)

type tenantedRes struct{ schoolID string }

func (r tenantedRes) TenantID() string { return r.schoolID }

type ownedRes struct{ ownerID string }

func (r ownedRes) OwnerID() string { return r.ownerID }

func claimsFor(email, role, schoolID string) auth.Claims {
	c := auth.Claims{Email: email, Role: role, SchoolID: schoolID}
	c.Subject = "u-" + email
	return c
}

func TestPolicy_Permit(t *testing.T) {
	conf := testutil.NewConfig()
	policy := auth.NewPolicy(conf)

	admin := claimsFor("admin@test.cd", user.RoleAdmin, "s1")
	teacher := claimsFor("teacher@test.cd", user.RoleTeacher, "s1")
	student := claimsFor("student@test.cd", user.RoleStudent, "s1")
	super := claimsFor(conf.SuperAdminEmail, user.RoleAdmin, "s0")
	anon := auth.Claims{}

	tests := []struct {
		name    string
		rule    auth.Rule
		claims  auth.Claims
		wantErr error
	}{
		{"any role: admin", auth.AnyRole, admin, nil},
		{"any role: student", auth.AnyRole, student, nil},
		{"any role: no role", auth.AnyRole, anon, auth.ErrPermissionDenied},
		{"admin only: admin", auth.AdminOnly, admin, nil},
		{"admin only: teacher", auth.AdminOnly, teacher, auth.ErrPermissionDenied},
		{"admin only: super is not exempt", auth.AdminOnly, claimsFor(conf.SuperAdminEmail, "", "s0"), auth.ErrPermissionDenied},
		{"admin or super: admin", auth.AdminOrSuper, admin, nil},
		{"admin or super: super", auth.AdminOrSuper, claimsFor(conf.SuperAdminEmail, "", "s0"), nil},
		{"admin or super: teacher", auth.AdminOrSuper, teacher, auth.ErrPermissionDenied},
		{"admin or teacher: teacher", auth.AdminOrTeacher, teacher, nil},
		{"admin or teacher: student", auth.AdminOrTeacher, student, auth.ErrPermissionDenied},
		{"teacher only: teacher", auth.TeacherOnly, teacher, nil},
		{"teacher only: admin", auth.TeacherOnly, admin, auth.ErrPermissionDenied},
		{"student only: student", auth.StudentOnly, student, nil},
		{"super only: super", auth.SuperOnly, super, nil},
		{"super only: admin", auth.SuperOnly, admin, auth.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := policy.Permit(tt.rule, tt.claims); err != tt.wantErr {
				t.Errorf("Permit() err = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPolicy_PermitTenant(t *testing.T) {
	conf := testutil.NewConfig()
	policy := auth.NewPolicy(conf)

	admin := claimsFor("admin@test.cd", user.RoleAdmin, "s1")
	super := claimsFor(conf.SuperAdminEmail, user.RoleAdmin, "s0")

	if err := policy.PermitTenant(admin, tenantedRes{"s1"}); err != nil {
		t.Errorf("PermitTenant(own school) err = %v; want nil", err)
	}
	// a foreign resource is indistinguishable from an absent one
	if err := policy.PermitTenant(admin, tenantedRes{"s2"}); err != core.ErrNotFound {
		t.Errorf("PermitTenant(foreign school) err = %v; want ErrNotFound", err)
	}
	if err := policy.PermitTenant(super, tenantedRes{"s2"}); err != nil {
		t.Errorf("PermitTenant(super, foreign school) err = %v; want nil", err)
	}
}

func TestPolicy_IsSuper(t *testing.T) {
	conf := testutil.NewConfig()
	policy := auth.NewPolicy(conf)

	if !policy.IsSuper(claimsFor(conf.SuperAdminEmail, user.RoleAdmin, "s0")) {
		t.Error("IsSuper(super email) = false; want true")
	}
	if policy.IsSuper(claimsFor("admin@test.cd", user.RoleAdmin, "s0")) {
		t.Error("IsSuper(other email) = true; want false")
	}

	// an empty configured super email must never match
	policy = auth.NewPolicy(&core.Config{})
	if policy.IsSuper(claimsFor("", user.RoleAdmin, "s0")) {
		t.Error("IsSuper with empty config matched an empty email")
	}
}

func TestPermitOwner(t *testing.T) {
	if err := auth.PermitOwner("t1", ownedRes{"t1"}); err != nil {
		t.Errorf("PermitOwner(own) err = %v; want nil", err)
	}
	if err := auth.PermitOwner("t1", ownedRes{"t2"}); err != auth.ErrPermissionDenied {
		t.Errorf("PermitOwner(foreign) err = %v; want ErrPermissionDenied", err)
	}
}
