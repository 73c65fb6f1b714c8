package authz

import (
	"context"
	"fmt"

	"github.com/meridian-hq/meridian/internal/shared"
)

// Reason explains why a module-scoped check failed, for observability.
type Reason string

const (
	// ReasonNone means the check passed.
	ReasonNone Reason = "none"
	// ReasonModuleDisabled means the company has not enabled the module.
	ReasonModuleDisabled Reason = "module_disabled"
	// ReasonNoRole means the user holds no valid role in the module scope.
	ReasonNoRole Reason = "no_role"
	// ReasonPermissionDenied means resolution did not yield the permission.
	ReasonPermissionDenied Reason = "permission_denied"
)

// Decision is the structured result of a module-scoped check. Callers
// that only need the boolean read Allowed.
type Decision struct {
	Allowed       bool
	ModuleEnabled bool
	HasRole       bool
	HasPermission bool
	Reason        Reason
}

// ModuleChecker answers company module enablement.
type ModuleChecker interface {
	Enabled(ctx context.Context, companyID int64, module string) (bool, error)
}

// Gate runs the three-level module check: company enablement, role
// presence, permission resolution.
type Gate struct {
	resolver *Resolver
	modules  ModuleChecker
}

// NewGate constructs a Gate.
func NewGate(resolver *Resolver, modules ModuleChecker) *Gate {
	return &Gate{resolver: resolver, modules: modules}
}

// AuthorizeInModule checks a module-scoped permission. Enablement is
// checked before any role or permission lookup: a disabled module
// short-circuits with a distinct reason and spends no time resolving.
// Bypass roles short-circuit all three gates.
func (g *Gate) AuthorizeInModule(ctx context.Context, user shared.Actor, module, permission string, companyID int64) (Decision, error) {
	ok, err := g.resolver.bypass(ctx, user, companyID)
	if err != nil {
		return Decision{Reason: ReasonPermissionDenied}, err
	}
	if ok {
		return Decision{Allowed: true, ModuleEnabled: true, HasRole: true, HasPermission: true, Reason: ReasonNone}, nil
	}

	enabled, err := g.modules.Enabled(ctx, companyID, module)
	if err != nil {
		return Decision{Reason: ReasonModuleDisabled}, fmt.Errorf("module enablement: %w: %v", shared.ErrResolutionUnavailable, err)
	}
	if !enabled {
		return Decision{Reason: ReasonModuleDisabled}, nil
	}

	scope := Scope{CompanyID: companyID, Module: module}
	roleCodes, err := g.resolver.ValidRoleCodes(ctx, user.UserID, scope)
	if err != nil {
		return Decision{ModuleEnabled: true, Reason: ReasonPermissionDenied}, err
	}
	hasRole := len(roleCodes) > 0

	perms, err := g.resolver.EffectivePermissions(ctx, user, scope)
	if err != nil {
		return Decision{ModuleEnabled: true, HasRole: hasRole, Reason: ReasonPermissionDenied}, err
	}
	_, granted := perms[permission]

	d := Decision{
		Allowed:       granted,
		ModuleEnabled: true,
		HasRole:       hasRole,
		HasPermission: granted,
		Reason:        ReasonNone,
	}
	if !granted {
		// Role presence is diagnostic only: a user can pass on a grant
		// override without holding any role.
		if hasRole {
			d.Reason = ReasonPermissionDenied
		} else {
			d.Reason = ReasonNoRole
		}
	}
	return d, nil
}
