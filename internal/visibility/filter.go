package visibility

import (
	"context"

	"github.com/meridian-hq/meridian/internal/authz"
	"github.com/meridian-hq/meridian/internal/registry"
	"github.com/meridian-hq/meridian/internal/shared"
)

// Filter decides row-level access to records. It composes the module
// gate and the resolver; it never reinterprets either.
type Filter struct {
	resolver *authz.Resolver
	gate     *authz.Gate
}

// NewFilter constructs a Filter.
func NewFilter(resolver *authz.Resolver, gate *authz.Gate) *Filter {
	return &Filter{resolver: resolver, gate: gate}
}

// CanView reports whether the user may see the record. The company
// boundary is hard: no role, override, or share crosses it. Owners see
// their own records even when the module has been disabled since.
func (f *Filter) CanView(ctx context.Context, user shared.Actor, rec Record, module string) (bool, error) {
	bypass, err := f.bypass(ctx, user, rec.CompanyID)
	if err != nil {
		return false, err
	}
	if bypass {
		return true, nil
	}
	if rec.CompanyID != 0 && user.CompanyID != 0 && rec.CompanyID != user.CompanyID {
		return false, nil
	}
	if rec.OwnerID != 0 && rec.OwnerID == user.UserID {
		return true, nil
	}
	if module != "" {
		decision, err := f.gate.AuthorizeInModule(ctx, user, module, registry.PermView, rec.CompanyID)
		if err != nil {
			return false, err
		}
		if !decision.Allowed {
			return false, nil
		}
	}
	switch rec.Visibility {
	case LevelCompany:
		return true, nil
	case LevelTeam:
		if rec.TeamID == 0 {
			// Untagged team records read as company-visible, not orphaned.
			return true, nil
		}
		return user.TeamID != 0 && rec.TeamID == user.TeamID, nil
	case LevelShared:
		for _, id := range rec.SharedWith {
			if id == user.UserID {
				return true, nil
			}
		}
		return false, nil
	default:
		// LevelOwner and unknown tags: owner-only, already handled above.
		return false, nil
	}
}

// CanEdit reports whether the user may update the record. Viewing is a
// precondition; owners edit their own records regardless of granted
// permissions.
func (f *Filter) CanEdit(ctx context.Context, user shared.Actor, rec Record, module string) (bool, error) {
	return f.canAct(ctx, user, rec, module, registry.PermUpdate, true)
}

// CanDelete reports whether the user may delete the record. Owners
// delete their own records regardless of granted permissions.
func (f *Filter) CanDelete(ctx context.Context, user shared.Actor, rec Record, module string) (bool, error) {
	return f.canAct(ctx, user, rec, module, registry.PermDelete, true)
}

// CanManage reports whether the user has full control of the record.
// Unlike edit and delete, ownership grants no shortcut: manage always
// requires the permission.
func (f *Filter) CanManage(ctx context.Context, user shared.Actor, rec Record, module string) (bool, error) {
	return f.canAct(ctx, user, rec, module, registry.PermManage, false)
}

func (f *Filter) canAct(ctx context.Context, user shared.Actor, rec Record, module, permission string, ownerBypass bool) (bool, error) {
	visible, err := f.CanView(ctx, user, rec, module)
	if err != nil || !visible {
		return false, err
	}
	bypass, err := f.bypass(ctx, user, rec.CompanyID)
	if err != nil {
		return false, err
	}
	if bypass {
		return true, nil
	}
	if ownerBypass && rec.OwnerID != 0 && rec.OwnerID == user.UserID {
		return true, nil
	}
	if module != "" {
		decision, err := f.gate.AuthorizeInModule(ctx, user, module, permission, rec.CompanyID)
		if err != nil {
			return false, err
		}
		return decision.Allowed, nil
	}
	return f.resolver.Authorize(ctx, user, permission, authz.Scope{CompanyID: rec.CompanyID})
}

func (f *Filter) bypass(ctx context.Context, user shared.Actor, companyID int64) (bool, error) {
	admin, err := f.resolver.IsPlatformAdmin(ctx, user.UserID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}
	if companyID != 0 && user.CompanyID == companyID {
		return f.resolver.IsCompanyOwner(ctx, user.UserID, companyID)
	}
	return false, nil
}

// FilterVisible returns the subset of records the user may view,
// preserving order. Any resolution failure aborts the whole filter so
// callers fail closed instead of serving a partial list.
func FilterVisible[T Resource](ctx context.Context, f *Filter, user shared.Actor, records []T, module string) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		visible, err := f.CanView(ctx, user, rec.VisibilityRecord(), module)
		if err != nil {
			return nil, err
		}
		if visible {
			out = append(out, rec)
		}
	}
	return out, nil
}
