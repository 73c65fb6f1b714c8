package assignments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meridian-hq/meridian/internal/registry"
	"github.com/meridian-hq/meridian/internal/shared"
)

// RoleDirectory is the slice of the registry snapshot the service needs.
type RoleDirectory interface {
	RoleByCode(code string) (registry.Role, bool)
	PermissionByCode(code string) (registry.Permission, bool)
}

// Service wraps grant/revoke/override business rules.
type Service struct {
	repo  Repository
	roles RoleDirectory
}

// NewService constructs a Service.
func NewService(repo Repository, roles RoleDirectory) *Service {
	return &Service{repo: repo, roles: roles}
}

// GrantRole assigns a role to a user within the given scope. Granting an
// already-revoked assignment reactivates it.
func (s *Service) GrantRole(ctx context.Context, userID int64, roleCode string, companyID int64, module string, grantedBy int64, expiresAt *time.Time) (Assignment, error) {
	role, ok := s.roles.RoleByCode(roleCode)
	if !ok || !role.IsActive {
		return Assignment{}, fmt.Errorf("assignments: unknown role %q: %w", roleCode, shared.ErrNotFound)
	}
	if role.Type == registry.RoleTypeModule && module == "" {
		module = role.Module
	}
	if role.Type == registry.RoleTypePlatform && companyID != 0 {
		return Assignment{}, errors.New("assignments: platform roles cannot be company scoped")
	}
	if expiresAt != nil && !expiresAt.After(time.Now()) {
		return Assignment{}, errors.New("assignments: expiry must be in the future")
	}
	return s.repo.UpsertAssignment(ctx, Assignment{
		UserID:     userID,
		RoleID:     role.ID,
		RoleCode:   role.Code,
		CompanyID:  companyID,
		Module:     module,
		AssignedBy: grantedBy,
		ExpiresAt:  expiresAt,
	})
}

// RevokeRole deactivates the matching assignment. Revocation never
// deletes the row; history stays queryable.
func (s *Service) RevokeRole(ctx context.Context, userID int64, roleCode string, companyID int64, module string) error {
	role, ok := s.roles.RoleByCode(roleCode)
	if !ok {
		return fmt.Errorf("assignments: unknown role %q: %w", roleCode, shared.ErrNotFound)
	}
	if role.Type == registry.RoleTypeModule && module == "" {
		module = role.Module
	}
	revoked, err := s.repo.DeactivateAssignment(ctx, userID, role.ID, companyID, module)
	if err != nil {
		return err
	}
	if !revoked {
		return shared.ErrNotFound
	}
	return nil
}

// CreateOverride records an administrator grant or deny. Database-level
// uniqueness keeps the one-active-super-plan-grant-per-company invariant;
// a concurrent duplicate surfaces as shared.ErrDuplicateGrant.
func (s *Service) CreateOverride(ctx context.Context, o Override) (Override, error) {
	if o.TargetType != TargetUser && o.TargetType != TargetTeam && o.TargetType != TargetCompany {
		return Override{}, fmt.Errorf("assignments: invalid override target %q", o.TargetType)
	}
	if o.Action != ActionGrant && o.Action != ActionDeny {
		return Override{}, fmt.Errorf("assignments: invalid override action %q", o.Action)
	}
	if _, ok := s.roles.PermissionByCode(o.PermissionCode); !ok {
		return Override{}, fmt.Errorf("assignments: unknown permission %q: %w", o.PermissionCode, shared.ErrNotFound)
	}
	if o.PermissionCode == registry.PermSuperPlanAccess && o.Action == ActionGrant && o.CompanyID == 0 {
		return Override{}, errors.New("assignments: super plan grant requires a company")
	}
	if o.ExpiresAt != nil && !o.ExpiresAt.After(time.Now()) {
		return Override{}, errors.New("assignments: expiry must be in the future")
	}
	return s.repo.CreateOverride(ctx, o)
}

// RevokeOverride deactivates an override by id.
func (s *Service) RevokeOverride(ctx context.Context, id int64) error {
	revoked, err := s.repo.DeactivateOverride(ctx, id)
	if err != nil {
		return err
	}
	if !revoked {
		return shared.ErrNotFound
	}
	return nil
}

// SweepExpired deactivates rows whose expiry has passed. Used by the
// background worker.
func (s *Service) SweepExpired(ctx context.Context, now time.Time) (int64, int64, error) {
	return s.repo.DeactivateExpired(ctx, now)
}
