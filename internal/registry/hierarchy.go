package registry

// HierarchyLevel returns the display/priority level for a role code, or
// zero when the code is unknown. Levels order roles for presentation;
// they carry no permission semantics.
func (s *Snapshot) HierarchyLevel(code string) int {
	role, ok := s.rolesByCode[code]
	if !ok {
		return 0
	}
	return role.HierarchyLevel
}

// Compare orders two role codes by hierarchy level: -1 when a is lower,
// 1 when higher, 0 when equal or both unknown.
func (s *Snapshot) Compare(a, b string) int {
	la, lb := s.HierarchyLevel(a), s.HierarchyLevel(b)
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	default:
		return 0
	}
}

// PrimaryRole picks the highest-level role among the given codes for
// display purposes. Returns false when no code resolves to a role.
func (s *Snapshot) PrimaryRole(codes []string) (Role, bool) {
	var best Role
	found := false
	for _, code := range codes {
		role, ok := s.rolesByCode[code]
		if !ok {
			continue
		}
		if !found || role.HierarchyLevel > best.HierarchyLevel {
			best = role
			found = true
		}
	}
	return best, found
}
