package registry

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads registry definitions from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LoadSnapshot reads the whole registry and builds an immutable snapshot.
// Called at startup and after registry edits; resolution never touches
// these tables directly.
func (r *Repository) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	roles, err := r.listRoles(ctx)
	if err != nil {
		return nil, err
	}
	perms, err := r.listPermissions(ctx)
	if err != nil {
		return nil, err
	}
	bindings, err := r.listBindings(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := r.listInheritanceEdges(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(roles, perms, bindings, edges), nil
}

func (r *Repository) listRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, display_name, role_type, COALESCE(module, ''), hierarchy_level, is_system, is_active, created_at, updated_at
FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		var roleType string
		if err := rows.Scan(&role.ID, &role.Code, &role.DisplayName, &roleType, &role.Module, &role.HierarchyLevel, &role.IsSystem, &role.IsActive, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		role.Type = RoleType(roleType)
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *Repository) listPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, category FROM permissions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Code, &p.Category); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *Repository) listBindings(ctx context.Context) ([]RoleBinding, error) {
	rows, err := r.pool.Query(ctx, `SELECT rb.role_id, p.code, COALESCE(rb.module, '')
FROM role_bindings rb JOIN permissions p ON p.id = rb.permission_id ORDER BY rb.role_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bindings []RoleBinding
	for rows.Next() {
		var b RoleBinding
		if err := rows.Scan(&b.RoleID, &b.PermissionCode, &b.Module); err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	return bindings, rows.Err()
}

func (r *Repository) listInheritanceEdges(ctx context.Context) ([]InheritanceEdge, error) {
	rows, err := r.pool.Query(ctx, `SELECT child_role_id, parent_role_id, COALESCE(module, '')
FROM role_inheritances ORDER BY child_role_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var edges []InheritanceEdge
	for rows.Next() {
		var e InheritanceEdge
		if err := rows.Scan(&e.ChildRoleID, &e.ParentRoleID, &e.Module); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
