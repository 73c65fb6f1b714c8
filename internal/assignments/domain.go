package assignments

import "time"

// Assignment grants a role to a user, scoped to a company and/or module.
// A zero CompanyID means a platform-level assignment; an empty Module
// means the assignment is not tied to one module.
type Assignment struct {
	ID         int64
	UserID     int64
	RoleID     int64
	RoleCode   string
	CompanyID  int64
	Module     string
	IsActive   bool
	AssignedBy int64
	AssignedAt time.Time
	ExpiresAt  *time.Time
}

// Valid reports whether the assignment contributes at the given instant:
// active and not past its expiry.
func (a Assignment) Valid(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.ExpiresAt != nil && now.After(*a.ExpiresAt) {
		return false
	}
	return true
}

// TargetType selects what an override applies to.
type TargetType string

const (
	// TargetUser applies an override to a single user.
	TargetUser TargetType = "user"
	// TargetTeam applies an override to every member of a team.
	TargetTeam TargetType = "team"
	// TargetCompany applies an override to every user of a company.
	TargetCompany TargetType = "company"
)

// OverrideAction says whether an override adds or removes a permission.
type OverrideAction string

const (
	// ActionGrant adds the permission to the resolved set.
	ActionGrant OverrideAction = "grant"
	// ActionDeny removes the permission from the resolved set. Denies are
	// applied after every grant, so a deny always wins.
	ActionDeny OverrideAction = "deny"
)

// Override is an administrator-issued grant or deny that adjusts the
// resolved permission set outside normal role bindings.
type Override struct {
	ID             int64
	TargetType     TargetType
	TargetID       int64
	CompanyID      int64
	PermissionCode string
	Module         string
	Action         OverrideAction
	IsActive       bool
	Reason         string
	CreatedBy      int64
	CreatedAt      time.Time
	ExpiresAt      *time.Time
}

// Valid reports whether the override contributes at the given instant.
func (o Override) Valid(now time.Time) bool {
	if !o.IsActive {
		return false
	}
	if o.ExpiresAt != nil && now.After(*o.ExpiresAt) {
		return false
	}
	return true
}
