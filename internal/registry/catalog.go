package registry

// Workspace module codes known to the platform.
const (
	ModuleSales     = "sales"
	ModuleSupport   = "support"
	ModuleProjects  = "projects"
	ModuleTasks     = "tasks"
	ModuleDashboard = "dashboard"
)

// CatalogRole describes a role seeded at bootstrap.
type CatalogRole struct {
	Code           string
	DisplayName    string
	Type           RoleType
	Module         string
	HierarchyLevel int
}

// CatalogBinding describes a default role-permission binding.
type CatalogBinding struct {
	RoleCode       string
	PermissionCode string
	Module         string
}

// CatalogEdge describes a default inheritance edge.
type CatalogEdge struct {
	ChildCode  string
	ParentCode string
	Module     string
}

// DefaultPermissions lists the permission codes seeded at bootstrap.
func DefaultPermissions() []Permission {
	return []Permission{
		{Code: PermView, Category: "crud"},
		{Code: PermCreate, Category: "crud"},
		{Code: PermUpdate, Category: "crud"},
		{Code: PermDelete, Category: "crud"},
		{Code: PermManage, Category: "advanced"},
		{Code: PermAssign, Category: "advanced"},
		{Code: PermShare, Category: "advanced"},
		{Code: PermExport, Category: "advanced"},
		{Code: PermImport, Category: "advanced"},
		{Code: PermConfigure, Category: "admin"},
		{Code: PermManageUsers, Category: "admin"},
		{Code: PermManageRoles, Category: "admin"},
		{Code: PermViewAnalytics, Category: "admin"},
		{Code: PermSuperPlanAccess, Category: "special"},
		{Code: PermBillingAdmin, Category: "special"},
	}
}

// DefaultRoles lists the roles seeded at bootstrap. Hierarchy levels
// mirror the platform role catalog: higher means shown first, nothing more.
func DefaultRoles() []CatalogRole {
	return []CatalogRole{
		{Code: RolePlatformAdmin, DisplayName: "Platform Admin", Type: RoleTypePlatform, HierarchyLevel: 100},
		{Code: RolePlatformUser, DisplayName: "Platform User", Type: RoleTypePlatform, HierarchyLevel: 50},
		{Code: RolePlatformSupport, DisplayName: "Platform Support", Type: RoleTypePlatform, HierarchyLevel: 30},

		{Code: RoleCompanyOwner, DisplayName: "Company Owner", Type: RoleTypeCompany, HierarchyLevel: 90},
		{Code: RoleCompanyAdmin, DisplayName: "Company Admin", Type: RoleTypeCompany, HierarchyLevel: 70},
		{Code: RoleMember, DisplayName: "Member", Type: RoleTypeCompany, HierarchyLevel: 10},

		{Code: "sales_manager", DisplayName: "Sales Manager", Type: RoleTypeModule, Module: ModuleSales, HierarchyLevel: 80},
		{Code: "sales_rep", DisplayName: "Sales Rep", Type: RoleTypeModule, Module: ModuleSales, HierarchyLevel: 50},
		{Code: "sales_viewer", DisplayName: "Sales Viewer", Type: RoleTypeModule, Module: ModuleSales, HierarchyLevel: 10},

		{Code: "support_manager", DisplayName: "Support Manager", Type: RoleTypeModule, Module: ModuleSupport, HierarchyLevel: 80},
		{Code: "support_agent", DisplayName: "Support Agent", Type: RoleTypeModule, Module: ModuleSupport, HierarchyLevel: 50},
		{Code: "support_viewer", DisplayName: "Support Viewer", Type: RoleTypeModule, Module: ModuleSupport, HierarchyLevel: 10},

		{Code: "project_manager", DisplayName: "Project Manager", Type: RoleTypeModule, Module: ModuleProjects, HierarchyLevel: 80},
		{Code: "project_member", DisplayName: "Project Member", Type: RoleTypeModule, Module: ModuleProjects, HierarchyLevel: 40},
		{Code: "project_viewer", DisplayName: "Project Viewer", Type: RoleTypeModule, Module: ModuleProjects, HierarchyLevel: 10},
	}
}

// DefaultBindings lists the bindings seeded at bootstrap.
func DefaultBindings() []CatalogBinding {
	crud := []string{PermView, PermCreate, PermUpdate, PermDelete}
	all := append(append([]string{}, crud...), PermManage, PermAssign, PermShare, PermExport, PermImport, PermConfigure, PermManageUsers, PermManageRoles, PermViewAnalytics)

	var out []CatalogBinding
	add := func(role string, module string, perms ...string) {
		for _, p := range perms {
			out = append(out, CatalogBinding{RoleCode: role, PermissionCode: p, Module: module})
		}
	}

	// Platform and company roles bind unscoped: they apply in every module.
	add(RolePlatformAdmin, "", all...)
	add(RoleCompanyOwner, "", all...)
	add(RoleCompanyOwner, "", PermBillingAdmin)
	add(RoleCompanyAdmin, "", PermView, PermCreate, PermUpdate, PermAssign, PermShare, PermExport, PermViewAnalytics)
	add(RoleMember, "", PermView)

	add("sales_manager", ModuleSales, all...)
	add("sales_rep", ModuleSales, PermCreate, PermUpdate, PermAssign, PermShare, PermExport)
	add("sales_viewer", ModuleSales, PermView)

	add("support_manager", ModuleSupport, all...)
	add("support_agent", ModuleSupport, PermCreate, PermUpdate, PermAssign, PermShare)
	add("support_viewer", ModuleSupport, PermView)

	add("project_manager", ModuleProjects, all...)
	add("project_member", ModuleProjects, PermCreate, PermUpdate, PermShare)
	add("project_viewer", ModuleProjects, PermView)

	return out
}

// DefaultEdges lists the inheritance edges seeded at bootstrap. Reps and
// agents inherit their module's viewer role instead of re-binding view.
func DefaultEdges() []CatalogEdge {
	return []CatalogEdge{
		{ChildCode: "sales_manager", ParentCode: "sales_rep", Module: ModuleSales},
		{ChildCode: "sales_rep", ParentCode: "sales_viewer", Module: ModuleSales},
		{ChildCode: "support_manager", ParentCode: "support_agent", Module: ModuleSupport},
		{ChildCode: "support_agent", ParentCode: "support_viewer", Module: ModuleSupport},
		{ChildCode: "project_manager", ParentCode: "project_member", Module: ModuleProjects},
		{ChildCode: "project_member", ParentCode: "project_viewer", Module: ModuleProjects},
	}
}
