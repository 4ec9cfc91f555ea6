package auth

import (
	"errors"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/user"
)

var ErrPermissionDenied = errors.New("permission denied")

type (
	// Rule is the declarative authorization predicate of one endpoint:
	// which roles may call it and whether the configured super admin is
	// required or merely allowed through.
	Rule struct {
		Roles      []string // allowed roles; nil means any authenticated user
		SuperOnly  bool     // only the super admin passes
		AllowSuper bool     // the super admin passes regardless of Roles
	}

	// Tenanted is a resource carrying the school it belongs to.
	Tenanted interface {
		TenantID() string
	}

	// Owned is a resource carrying the identity that authored it.
	Owned interface {
		OwnerID() string
	}

	// Policy evaluates Rules against verified claims. The super admin is a
	// fixed configured email, exempt from tenant scoping.
	Policy struct {
		superEmail string
	}
)

// Common rule sets.
var (
	AnyRole        = Rule{}
	AdminOnly      = Rule{Roles: []string{user.RoleAdmin}}
	AdminOrSuper   = Rule{Roles: []string{user.RoleAdmin}, AllowSuper: true}
	AdminOrTeacher = Rule{Roles: []string{user.RoleAdmin, user.RoleTeacher}}
	TeacherOnly    = Rule{Roles: []string{user.RoleTeacher}}
	StudentOnly    = Rule{Roles: []string{user.RoleStudent}}
	SuperOnly      = Rule{SuperOnly: true}
)

func NewPolicy(conf *core.Config) Policy {
	return Policy{superEmail: conf.SuperAdminEmail}
}

func (p Policy) IsSuper(c Claims) bool {
	return p.superEmail != "" && c.Email == p.superEmail
}

// Permit checks role membership, failing closed.
func (p Policy) Permit(r Rule, c Claims) error {
	if p.IsSuper(c) && (r.SuperOnly || r.AllowSuper) {
		return nil
	}
	if r.SuperOnly {
		return ErrPermissionDenied
	}
	if len(r.Roles) == 0 {
		if c.Role == "" {
			return ErrPermissionDenied
		}
		return nil
	}
	for _, role := range r.Roles {
		if c.Role == role {
			return nil
		}
	}
	return ErrPermissionDenied
}

// PermitTenant checks that res belongs to the caller's school. A mismatch
// reports not-found so cross-tenant probing cannot tell absent from foreign.
// The super admin bypasses tenant scoping.
func (p Policy) PermitTenant(c Claims, res Tenanted) error {
	if p.IsSuper(c) {
		return nil
	}
	if res.TenantID() != c.SchoolID {
		return core.ErrNotFound
	}
	return nil
}

// PermitOwner checks that res was authored by ownerID (the caller's user ID,
// or their resolved profile ID for teacher-authored resources).
func PermitOwner(ownerID string, res Owned) error {
	if res.OwnerID() != ownerID {
		return ErrPermissionDenied
	}
	return nil
}
