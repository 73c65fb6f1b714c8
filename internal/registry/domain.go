package registry

import "time"

// RoleType partitions roles by the scope they are meant for.
type RoleType string

const (
	// RoleTypePlatform marks roles owned by the platform operator.
	RoleTypePlatform RoleType = "platform"
	// RoleTypeCompany marks roles granted within a tenant company.
	RoleTypeCompany RoleType = "company"
	// RoleTypeModule marks roles tied to a single workspace module.
	RoleTypeModule RoleType = "module"
)

// Role is a named bundle of permission bindings. HierarchyLevel orders
// roles for display and primary-role selection only; it never implies
// permission inheritance, which flows solely through InheritanceEdge.
type Role struct {
	ID             int64
	Code           string
	DisplayName    string
	Type           RoleType
	Module         string // required iff Type == RoleTypeModule
	HierarchyLevel int
	IsSystem       bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Permission is an atomic capability code. Immutable once bound to a role.
type Permission struct {
	ID       int64
	Code     string
	Category string
}

// RoleBinding attaches a permission to a role, optionally limited to a
// module context. An empty Module applies in every module context.
type RoleBinding struct {
	RoleID         int64
	PermissionCode string
	Module         string
}

// InheritanceEdge is a directed edge: the child role's effective
// permissions include the parent role's. An empty Module applies in
// every module context.
type InheritanceEdge struct {
	ChildRoleID  int64
	ParentRoleID int64
	Module       string
}

// Well-known role codes.
const (
	RolePlatformAdmin   = "platform_admin"
	RolePlatformUser    = "platform_user"
	RolePlatformSupport = "platform_support"

	RoleCompanyOwner = "company_owner"
	RoleCompanyAdmin = "company_admin"
	RoleMember       = "member"
)

// Well-known permission codes.
const (
	PermView   = "view"
	PermCreate = "create"
	PermUpdate = "update"
	PermDelete = "delete"
	PermManage = "manage"
	PermAssign = "assign"
	PermShare  = "share"
	PermExport = "export"
	PermImport = "import"

	PermConfigure     = "configure"
	PermManageUsers   = "manage_users"
	PermManageRoles   = "manage_roles"
	PermViewAnalytics = "view_analytics"

	// PermSuperPlanAccess unlocks every plan tier for a company. At most
	// one active grant override per company may carry it.
	PermSuperPlanAccess = "super_plan_access"
	PermBillingAdmin    = "billing_admin"
)
