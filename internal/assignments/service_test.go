package assignments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hq/meridian/internal/registry"
	"github.com/meridian-hq/meridian/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepo struct {
	upserted    []Assignment
	overrides   []Override
	nextID      int64
	deactivated bool

	createOverrideErr error
	sweptAssignments  int64
	sweptOverrides    int64
}

func (m *mockRepo) ListForUser(ctx context.Context, userID, companyID int64, module string) ([]Assignment, error) {
	return nil, nil
}

func (m *mockRepo) ListOverrides(ctx context.Context, userID, teamID, companyID int64, module string) ([]Override, error) {
	return m.overrides, nil
}

func (m *mockRepo) UpsertAssignment(ctx context.Context, a Assignment) (Assignment, error) {
	m.nextID++
	a.ID = m.nextID
	a.IsActive = true
	a.AssignedAt = time.Now()
	m.upserted = append(m.upserted, a)
	return a, nil
}

func (m *mockRepo) DeactivateAssignment(ctx context.Context, userID, roleID, companyID int64, module string) (bool, error) {
	return m.deactivated, nil
}

func (m *mockRepo) CreateOverride(ctx context.Context, o Override) (Override, error) {
	if m.createOverrideErr != nil {
		return Override{}, m.createOverrideErr
	}
	m.nextID++
	o.ID = m.nextID
	o.IsActive = true
	o.CreatedAt = time.Now()
	m.overrides = append(m.overrides, o)
	return o, nil
}

func (m *mockRepo) DeactivateOverride(ctx context.Context, id int64) (bool, error) {
	return m.deactivated, nil
}

func (m *mockRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, int64, error) {
	return m.sweptAssignments, m.sweptOverrides, nil
}

var _ Repository = (*mockRepo)(nil)

func testDirectory() RoleDirectory {
	roles := []registry.Role{
		{ID: 1, Code: registry.RolePlatformAdmin, Type: registry.RoleTypePlatform, IsActive: true},
		{ID: 2, Code: registry.RoleMember, Type: registry.RoleTypeCompany, IsActive: true},
		{ID: 3, Code: "sales_rep", Type: registry.RoleTypeModule, Module: registry.ModuleSales, IsActive: true},
		{ID: 4, Code: "retired", Type: registry.RoleTypeCompany, IsActive: false},
	}
	perms := []registry.Permission{
		{ID: 1, Code: registry.PermView},
		{ID: 2, Code: registry.PermSuperPlanAccess},
	}
	return registry.NewSnapshot(roles, perms, nil, nil)
}

// ============================================================================
// GRANT / REVOKE
// ============================================================================

func TestGrantRole(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, testDirectory())

	a, err := svc.GrantRole(context.Background(), 10, registry.RoleMember, 1, "", 99, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.RoleID)
	assert.Equal(t, int64(1), a.CompanyID)
	assert.True(t, a.IsActive)
}

func TestGrantRoleUnknownRole(t *testing.T) {
	svc := NewService(&mockRepo{}, testDirectory())

	_, err := svc.GrantRole(context.Background(), 10, "nope", 1, "", 99, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGrantRoleInactiveRole(t *testing.T) {
	svc := NewService(&mockRepo{}, testDirectory())

	_, err := svc.GrantRole(context.Background(), 10, "retired", 1, "", 99, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGrantRoleModuleDefaulted(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, testDirectory())

	a, err := svc.GrantRole(context.Background(), 10, "sales_rep", 1, "", 99, nil)
	require.NoError(t, err)
	assert.Equal(t, registry.ModuleSales, a.Module, "module roles default to their module")
}

func TestGrantRolePlatformRoleCompanyScoped(t *testing.T) {
	svc := NewService(&mockRepo{}, testDirectory())

	_, err := svc.GrantRole(context.Background(), 10, registry.RolePlatformAdmin, 1, "", 99, nil)
	assert.Error(t, err)
}

func TestGrantRolePastExpiry(t *testing.T) {
	svc := NewService(&mockRepo{}, testDirectory())

	past := time.Now().Add(-time.Hour)
	_, err := svc.GrantRole(context.Background(), 10, registry.RoleMember, 1, "", 99, &past)
	assert.Error(t, err)
}

func TestRevokeRole(t *testing.T) {
	repo := &mockRepo{deactivated: true}
	svc := NewService(repo, testDirectory())

	require.NoError(t, svc.RevokeRole(context.Background(), 10, registry.RoleMember, 1, ""))
}

func TestRevokeRoleNotFound(t *testing.T) {
	svc := NewService(&mockRepo{deactivated: false}, testDirectory())

	err := svc.RevokeRole(context.Background(), 10, registry.RoleMember, 1, "")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// ============================================================================
// OVERRIDES
// ============================================================================

func validOverride() Override {
	return Override{
		TargetType:     TargetUser,
		TargetID:       10,
		CompanyID:      1,
		PermissionCode: registry.PermView,
		Action:         ActionDeny,
		Reason:         "audit finding",
	}
}

func TestCreateOverride(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, testDirectory())

	o, err := svc.CreateOverride(context.Background(), validOverride())
	require.NoError(t, err)
	assert.True(t, o.IsActive)
	assert.NotZero(t, o.ID)
}

func TestCreateOverrideValidation(t *testing.T) {
	svc := NewService(&mockRepo{}, testDirectory())

	cases := []struct {
		name   string
		mutate func(*Override)
	}{
		{"invalid target", func(o *Override) { o.TargetType = "group" }},
		{"invalid action", func(o *Override) { o.Action = "maybe" }},
		{"unknown permission", func(o *Override) { o.PermissionCode = "nope" }},
		{"past expiry", func(o *Override) { past := time.Now().Add(-time.Hour); o.ExpiresAt = &past }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := validOverride()
			tc.mutate(&o)
			_, err := svc.CreateOverride(context.Background(), o)
			assert.Error(t, err)
		})
	}
}

func TestCreateOverrideSuperPlanRequiresCompany(t *testing.T) {
	svc := NewService(&mockRepo{}, testDirectory())

	o := validOverride()
	o.PermissionCode = registry.PermSuperPlanAccess
	o.Action = ActionGrant
	o.CompanyID = 0
	_, err := svc.CreateOverride(context.Background(), o)
	assert.Error(t, err)

	o.CompanyID = 1
	_, err = svc.CreateOverride(context.Background(), o)
	assert.NoError(t, err)
}

func TestCreateOverrideDuplicateSuperPlanGrant(t *testing.T) {
	repo := &mockRepo{createOverrideErr: shared.ErrDuplicateGrant}
	svc := NewService(repo, testDirectory())

	o := validOverride()
	o.PermissionCode = registry.PermSuperPlanAccess
	o.Action = ActionGrant
	_, err := svc.CreateOverride(context.Background(), o)
	assert.ErrorIs(t, err, shared.ErrDuplicateGrant)
}

func TestRevokeOverrideNotFound(t *testing.T) {
	svc := NewService(&mockRepo{}, testDirectory())

	err := svc.RevokeOverride(context.Background(), 5)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSweepExpired(t *testing.T) {
	repo := &mockRepo{sweptAssignments: 3, sweptOverrides: 1}
	svc := NewService(repo, testDirectory())

	a, o, err := svc.SweepExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), a)
	assert.Equal(t, int64(1), o)
}
