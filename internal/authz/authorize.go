package authz

import (
	"context"

	"github.com/meridian-hq/meridian/internal/registry"
	"github.com/meridian-hq/meridian/internal/shared"
)

// HasRole reports whether the user holds a valid assignment of the role
// in the scope.
func (r *Resolver) HasRole(ctx context.Context, userID int64, roleCode string, scope Scope) (bool, error) {
	codes, err := r.ValidRoleCodes(ctx, userID, scope)
	if err != nil {
		return false, err
	}
	for _, code := range codes {
		if code == roleCode {
			return true, nil
		}
	}
	return false, nil
}

// IsPlatformAdmin reports whether the user holds the platform admin role
// at platform scope. Platform admins bypass every permission check.
func (r *Resolver) IsPlatformAdmin(ctx context.Context, userID int64) (bool, error) {
	return r.HasRole(ctx, userID, registry.RolePlatformAdmin, Scope{})
}

// IsCompanyOwner reports whether the user owns the given company. Owners
// bypass permission checks scoped to their own company only.
func (r *Resolver) IsCompanyOwner(ctx context.Context, userID, companyID int64) (bool, error) {
	if companyID == 0 {
		return false, nil
	}
	return r.HasRole(ctx, userID, registry.RoleCompanyOwner, Scope{CompanyID: companyID})
}

// bypass evaluates the two unconditional bypasses for a scope.
func (r *Resolver) bypass(ctx context.Context, user shared.Actor, companyID int64) (bool, error) {
	admin, err := r.IsPlatformAdmin(ctx, user.UserID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}
	if companyID != 0 && user.CompanyID == companyID {
		return r.IsCompanyOwner(ctx, user.UserID, companyID)
	}
	return false, nil
}

// Authorize reports whether the user holds the permission in the scope.
// Platform admins pass unconditionally; company owners pass for any
// permission scoped to their own company. Everyone else goes through
// full resolution.
func (r *Resolver) Authorize(ctx context.Context, user shared.Actor, permission string, scope Scope) (bool, error) {
	ok, err := r.bypass(ctx, user, scope.CompanyID)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	perms, err := r.EffectivePermissions(ctx, user, scope)
	if err != nil {
		return false, err
	}
	_, granted := perms[permission]
	return granted, nil
}

// PrimaryRole returns the user's highest-hierarchy role in scope for
// display. Hierarchy never feeds permission decisions.
func (r *Resolver) PrimaryRole(ctx context.Context, userID int64, scope Scope) (registry.Role, bool, error) {
	codes, err := r.ValidRoleCodes(ctx, userID, scope)
	if err != nil {
		return registry.Role{}, false, err
	}
	role, ok := r.registry.Current().PrimaryRole(codes)
	return role, ok, nil
}
