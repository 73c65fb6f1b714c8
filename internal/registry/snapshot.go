package registry

// Snapshot is an immutable view of the role/permission graph. It is built
// once at startup (or after a registry reload) and shared by concurrent
// resolution calls without locking.
type Snapshot struct {
	rolesByID   map[int64]Role
	rolesByCode map[string]Role
	permsByCode map[string]Permission
	bindings    map[int64][]RoleBinding
	parents     map[int64][]InheritanceEdge
}

// NewSnapshot indexes the given registry rows.
func NewSnapshot(roles []Role, perms []Permission, bindings []RoleBinding, edges []InheritanceEdge) *Snapshot {
	s := &Snapshot{
		rolesByID:   make(map[int64]Role, len(roles)),
		rolesByCode: make(map[string]Role, len(roles)),
		permsByCode: make(map[string]Permission, len(perms)),
		bindings:    make(map[int64][]RoleBinding),
		parents:     make(map[int64][]InheritanceEdge),
	}
	for _, r := range roles {
		s.rolesByID[r.ID] = r
		s.rolesByCode[r.Code] = r
	}
	for _, p := range perms {
		s.permsByCode[p.Code] = p
	}
	for _, b := range bindings {
		s.bindings[b.RoleID] = append(s.bindings[b.RoleID], b)
	}
	for _, e := range edges {
		s.parents[e.ChildRoleID] = append(s.parents[e.ChildRoleID], e)
	}
	return s
}

// RoleByID looks a role up by primary key.
func (s *Snapshot) RoleByID(id int64) (Role, bool) {
	r, ok := s.rolesByID[id]
	return r, ok
}

// RoleByCode looks a role up by its unique code.
func (s *Snapshot) RoleByCode(code string) (Role, bool) {
	r, ok := s.rolesByCode[code]
	return r, ok
}

// PermissionByCode looks a permission up by code.
func (s *Snapshot) PermissionByCode(code string) (Permission, bool) {
	p, ok := s.permsByCode[code]
	return p, ok
}

// DirectPermissions returns the permission codes bound directly to the
// role, filtered to the module context. An empty module matches every
// binding; a bound module matches bindings for that module or unscoped
// ones. Bindings to deactivated roles or unknown permissions yield nothing.
func (s *Snapshot) DirectPermissions(roleID int64, module string) []string {
	role, ok := s.rolesByID[roleID]
	if !ok || !role.IsActive {
		return nil
	}
	var out []string
	for _, b := range s.bindings[roleID] {
		if !moduleMatches(b.Module, module) {
			continue
		}
		if _, known := s.permsByCode[b.PermissionCode]; !known {
			continue
		}
		out = append(out, b.PermissionCode)
	}
	return out
}

// Parents returns the parent role ids reachable by one inheritance edge
// from the role, filtered to the module context.
func (s *Snapshot) Parents(roleID int64, module string) []int64 {
	var out []int64
	for _, e := range s.parents[roleID] {
		if !moduleMatches(e.Module, module) {
			continue
		}
		out = append(out, e.ParentRoleID)
	}
	return out
}

// RoleInheritsFrom reports whether child reaches parent through the
// inheritance graph, directly or transitively. A role inherits from itself.
func (s *Snapshot) RoleInheritsFrom(childCode, parentCode, module string) bool {
	child, ok := s.rolesByCode[childCode]
	if !ok {
		return false
	}
	parent, ok := s.rolesByCode[parentCode]
	if !ok {
		return false
	}
	visited := make(map[int64]struct{})
	var walk func(id int64) bool
	walk = func(id int64) bool {
		if id == parent.ID {
			return true
		}
		if _, seen := visited[id]; seen {
			return false
		}
		visited[id] = struct{}{}
		for _, pid := range s.Parents(id, module) {
			if walk(pid) {
				return true
			}
		}
		return false
	}
	return walk(child.ID)
}

// RoleAncestors returns every role reachable through inheritance edges
// from the given role, nearest first. Cycles are truncated.
func (s *Snapshot) RoleAncestors(roleCode, module string) []Role {
	role, ok := s.rolesByCode[roleCode]
	if !ok {
		return nil
	}
	var ancestors []Role
	visited := map[int64]struct{}{role.ID: {}}
	queue := s.Parents(role.ID, module)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		if parent, ok := s.rolesByID[id]; ok {
			ancestors = append(ancestors, parent)
		}
		queue = append(queue, s.Parents(id, module)...)
	}
	return ancestors
}

// Roles returns all roles in the snapshot.
func (s *Snapshot) Roles() []Role {
	out := make([]Role, 0, len(s.rolesByID))
	for _, r := range s.rolesByID {
		out = append(out, r)
	}
	return out
}

func moduleMatches(bound, requested string) bool {
	if bound == "" {
		return true
	}
	if requested == "" {
		// No module filter requested: every binding counts.
		return true
	}
	return bound == requested
}
