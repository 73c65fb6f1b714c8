package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Snapshot {
	roles := []Role{
		{ID: 1, Code: "sales_manager", Type: RoleTypeModule, Module: ModuleSales, HierarchyLevel: 80, IsActive: true},
		{ID: 2, Code: "sales_rep", Type: RoleTypeModule, Module: ModuleSales, HierarchyLevel: 50, IsActive: true},
		{ID: 3, Code: "sales_viewer", Type: RoleTypeModule, Module: ModuleSales, HierarchyLevel: 10, IsActive: true},
		{ID: 4, Code: "member", Type: RoleTypeCompany, HierarchyLevel: 10, IsActive: true},
		{ID: 5, Code: "retired", Type: RoleTypeCompany, IsActive: false},
	}
	perms := []Permission{
		{ID: 1, Code: PermView},
		{ID: 2, Code: PermCreate},
		{ID: 3, Code: PermUpdate},
		{ID: 4, Code: PermExport},
	}
	bindings := []RoleBinding{
		{RoleID: 1, PermissionCode: PermExport, Module: ModuleSales},
		{RoleID: 2, PermissionCode: PermCreate, Module: ModuleSales},
		{RoleID: 2, PermissionCode: PermUpdate, Module: ModuleSales},
		{RoleID: 3, PermissionCode: PermView, Module: ModuleSales},
		{RoleID: 4, PermissionCode: PermView},
		{RoleID: 4, PermissionCode: "ghost_permission"},
		{RoleID: 5, PermissionCode: PermCreate},
	}
	edges := []InheritanceEdge{
		{ChildRoleID: 1, ParentRoleID: 2, Module: ModuleSales},
		{ChildRoleID: 2, ParentRoleID: 3, Module: ModuleSales},
	}
	return NewSnapshot(roles, perms, bindings, edges)
}

func TestDirectPermissions(t *testing.T) {
	snap := testSnapshot()

	t.Run("module scoped binding matches its module", func(t *testing.T) {
		assert.ElementsMatch(t, []string{PermCreate, PermUpdate}, snap.DirectPermissions(2, ModuleSales))
	})

	t.Run("module scoped binding excluded from other module", func(t *testing.T) {
		assert.Empty(t, snap.DirectPermissions(2, ModuleSupport))
	})

	t.Run("empty module applies no filter", func(t *testing.T) {
		assert.ElementsMatch(t, []string{PermCreate, PermUpdate}, snap.DirectPermissions(2, ""))
	})

	t.Run("unscoped binding matches any module", func(t *testing.T) {
		assert.ElementsMatch(t, []string{PermView}, snap.DirectPermissions(4, ModuleSales))
	})

	t.Run("inactive role yields nothing", func(t *testing.T) {
		assert.Empty(t, snap.DirectPermissions(5, ""))
	})

	t.Run("unknown role yields nothing", func(t *testing.T) {
		assert.Empty(t, snap.DirectPermissions(99, ""))
	})

	t.Run("unknown permission code skipped", func(t *testing.T) {
		assert.NotContains(t, snap.DirectPermissions(4, ""), "ghost_permission")
	})
}

func TestRoleInheritsFrom(t *testing.T) {
	snap := testSnapshot()

	assert.True(t, snap.RoleInheritsFrom("sales_rep", "sales_viewer", ModuleSales))
	assert.True(t, snap.RoleInheritsFrom("sales_manager", "sales_viewer", ModuleSales), "transitive inheritance")
	assert.True(t, snap.RoleInheritsFrom("sales_rep", "sales_rep", ModuleSales), "role inherits from itself")
	assert.False(t, snap.RoleInheritsFrom("sales_viewer", "sales_rep", ModuleSales), "inheritance is directed")
	assert.False(t, snap.RoleInheritsFrom("sales_rep", "unknown", ModuleSales))
	assert.False(t, snap.RoleInheritsFrom("unknown", "sales_viewer", ModuleSales))
}

func TestRoleInheritsFromCycle(t *testing.T) {
	roles := []Role{
		{ID: 1, Code: "a", IsActive: true},
		{ID: 2, Code: "b", IsActive: true},
		{ID: 3, Code: "c", IsActive: true},
	}
	edges := []InheritanceEdge{
		{ChildRoleID: 1, ParentRoleID: 2},
		{ChildRoleID: 2, ParentRoleID: 3},
		{ChildRoleID: 3, ParentRoleID: 1},
	}
	snap := NewSnapshot(roles, nil, nil, edges)

	// Must terminate and still answer membership correctly.
	assert.True(t, snap.RoleInheritsFrom("a", "c", ""))
	assert.True(t, snap.RoleInheritsFrom("c", "b", ""))
	assert.False(t, snap.RoleInheritsFrom("a", "missing", ""))
}

func TestRoleAncestors(t *testing.T) {
	snap := testSnapshot()

	ancestors := snap.RoleAncestors("sales_manager", ModuleSales)
	require.Len(t, ancestors, 2)
	assert.Equal(t, "sales_rep", ancestors[0].Code, "nearest ancestor first")
	assert.Equal(t, "sales_viewer", ancestors[1].Code)

	assert.Empty(t, snap.RoleAncestors("sales_viewer", ModuleSales))
	assert.Empty(t, snap.RoleAncestors("unknown", ModuleSales))
}

func TestRoleAncestorsCycle(t *testing.T) {
	roles := []Role{
		{ID: 1, Code: "a", IsActive: true},
		{ID: 2, Code: "b", IsActive: true},
	}
	edges := []InheritanceEdge{
		{ChildRoleID: 1, ParentRoleID: 2},
		{ChildRoleID: 2, ParentRoleID: 1},
	}
	snap := NewSnapshot(roles, nil, nil, edges)

	ancestors := snap.RoleAncestors("a", "")
	require.Len(t, ancestors, 1)
	assert.Equal(t, "b", ancestors[0].Code)
}

func TestLookups(t *testing.T) {
	snap := testSnapshot()

	role, ok := snap.RoleByCode("sales_rep")
	require.True(t, ok)
	assert.Equal(t, int64(2), role.ID)

	_, ok = snap.RoleByCode("nope")
	assert.False(t, ok)

	perm, ok := snap.PermissionByCode(PermView)
	require.True(t, ok)
	assert.Equal(t, PermView, perm.Code)

	assert.Len(t, snap.Roles(), 5)
}
