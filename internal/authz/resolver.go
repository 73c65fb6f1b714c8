package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-hq/meridian/internal/assignments"
	"github.com/meridian-hq/meridian/internal/registry"
	"github.com/meridian-hq/meridian/internal/shared"
)

// Scope is the (company, module) context a check is evaluated against.
// Zero CompanyID means platform scope; empty Module means no module
// context.
type Scope struct {
	CompanyID int64
	Module    string
}

// AssignmentSource reads assignments and overrides for resolution. The
// engine only ever reads tenant data; mutation lives in the assignments
// service.
type AssignmentSource interface {
	ListForUser(ctx context.Context, userID, companyID int64, module string) ([]assignments.Assignment, error)
	ListOverrides(ctx context.Context, userID, teamID, companyID int64, module string) ([]assignments.Override, error)
}

// SnapshotProvider hands out the registry snapshot in effect.
type SnapshotProvider interface {
	Current() *registry.Snapshot
}

// Resolver computes effective permission sets. Stateless per call: each
// resolution works on one registry snapshot and one fetch of the user's
// rows, so concurrent calls need no locking.
type Resolver struct {
	registry SnapshotProvider
	store    AssignmentSource
	now      func() time.Time
}

// NewResolver constructs a Resolver.
func NewResolver(reg SnapshotProvider, store AssignmentSource) *Resolver {
	return &Resolver{registry: reg, store: store, now: time.Now}
}

// EffectivePermissions returns the permission codes the user holds in
// the scope: the union of direct and inherited role bindings, adjusted
// by overrides. Grants apply before denies regardless of storage order,
// so a deny always wins. Unknown role or permission codes contribute
// nothing; they never fail the call.
func (r *Resolver) EffectivePermissions(ctx context.Context, user shared.Actor, scope Scope) (map[string]struct{}, error) {
	snap := r.registry.Current()
	now := r.now()

	rows, err := r.store.ListForUser(ctx, user.UserID, scope.CompanyID, scope.Module)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w: %v", shared.ErrResolutionUnavailable, err)
	}

	perms := make(map[string]struct{})
	// One visited set per call: a role reached twice, including through a
	// cycle, contributes exactly once.
	visited := make(map[int64]struct{})
	for _, a := range rows {
		if !a.Valid(now) {
			continue
		}
		r.collect(snap, a.RoleID, scope.Module, visited, perms)
	}

	overrides, err := r.store.ListOverrides(ctx, user.UserID, user.TeamID, user.CompanyID, scope.Module)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w: %v", shared.ErrResolutionUnavailable, err)
	}
	for _, o := range overrides {
		if o.Valid(now) && o.Action == assignments.ActionGrant {
			perms[o.PermissionCode] = struct{}{}
		}
	}
	for _, o := range overrides {
		if o.Valid(now) && o.Action == assignments.ActionDeny {
			delete(perms, o.PermissionCode)
		}
	}
	return perms, nil
}

// collect walks the inheritance graph upward from roleID, adding every
// matching binding. Cycles are truncated by the visited set, so depth is
// bounded by the number of distinct roles.
func (r *Resolver) collect(snap *registry.Snapshot, roleID int64, module string, visited map[int64]struct{}, perms map[string]struct{}) {
	if _, seen := visited[roleID]; seen {
		return
	}
	visited[roleID] = struct{}{}

	role, ok := snap.RoleByID(roleID)
	if !ok || !role.IsActive {
		// Stale assignment referencing a removed or deactivated role.
		return
	}
	for _, code := range snap.DirectPermissions(roleID, module) {
		perms[code] = struct{}{}
	}
	for _, parentID := range snap.Parents(roleID, module) {
		r.collect(snap, parentID, module, visited, perms)
	}
}

// ValidRoleCodes returns the codes of the user's valid roles in scope.
// Used for module-gate diagnostics and primary-role display.
func (r *Resolver) ValidRoleCodes(ctx context.Context, userID int64, scope Scope) ([]string, error) {
	rows, err := r.store.ListForUser(ctx, userID, scope.CompanyID, scope.Module)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w: %v", shared.ErrResolutionUnavailable, err)
	}
	snap := r.registry.Current()
	now := r.now()
	var codes []string
	for _, a := range rows {
		if !a.Valid(now) {
			continue
		}
		role, ok := snap.RoleByID(a.RoleID)
		if !ok || !role.IsActive {
			continue
		}
		codes = append(codes, role.Code)
	}
	return codes, nil
}
