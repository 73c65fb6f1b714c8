package registry

import "sync/atomic"

// Holder publishes the current registry snapshot to concurrent readers.
// Resolution calls read one snapshot for their whole duration; Replace
// swaps in a freshly loaded one after registry edits.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder constructs a Holder seeded with the given snapshot.
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Current returns the snapshot in effect.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Replace publishes a new snapshot.
func (h *Holder) Replace(s *Snapshot) {
	h.current.Store(s)
}

// RoleByCode looks a role up in the snapshot in effect.
func (h *Holder) RoleByCode(code string) (Role, bool) {
	return h.Current().RoleByCode(code)
}

// PermissionByCode looks a permission up in the snapshot in effect.
func (h *Holder) PermissionByCode(code string) (Permission, bool) {
	return h.Current().PermissionByCode(code)
}
