package assignments

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hq/meridian/internal/shared"
)

// Repository defines persistence operations for assignments and overrides.
type Repository interface {
	ListForUser(ctx context.Context, userID, companyID int64, module string) ([]Assignment, error)
	ListOverrides(ctx context.Context, userID, teamID, companyID int64, module string) ([]Override, error)
	UpsertAssignment(ctx context.Context, a Assignment) (Assignment, error)
	DeactivateAssignment(ctx context.Context, userID, roleID, companyID int64, module string) (bool, error)
	CreateOverride(ctx context.Context, o Override) (Override, error)
	DeactivateOverride(ctx context.Context, id int64) (bool, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListForUser returns the user's active assignments for the scope. A zero
// companyID restricts to platform-level rows; a set companyID also admits
// platform-level rows, which apply everywhere. Expiry is checked by the
// caller via Valid so one clock decides the whole resolution.
func (r *PGRepository) ListForUser(ctx context.Context, userID, companyID int64, module string) ([]Assignment, error) {
	rows, err := r.pool.Query(ctx, `SELECT ur.id, ur.user_id, ur.role_id, ro.code, COALESCE(ur.company_id, 0), COALESCE(ur.module, ''), ur.is_active, COALESCE(ur.assigned_by, 0), ur.assigned_at, ur.expires_at
FROM user_roles ur
JOIN roles ro ON ro.id = ur.role_id
WHERE ur.user_id = $1
  AND ur.is_active
  AND (ur.company_id IS NULL OR ($2::bigint <> 0 AND ur.company_id = $2))
  AND ($3 = '' OR ur.module IS NULL OR ur.module = $3)`, userID, companyID, module)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.RoleID, &a.RoleCode, &a.CompanyID, &a.Module, &a.IsActive, &a.AssignedBy, &a.AssignedAt, &a.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListOverrides returns active overrides targeting the user directly,
// their team, or their company, filtered to the module context.
func (r *PGRepository) ListOverrides(ctx context.Context, userID, teamID, companyID int64, module string) ([]Override, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, target_type, target_id, COALESCE(company_id, 0), permission_code, COALESCE(module, ''), action, is_active, reason, COALESCE(created_by, 0), created_at, expires_at
FROM permission_overrides
WHERE is_active
  AND ((target_type = 'user' AND target_id = $1)
    OR ($2::bigint <> 0 AND target_type = 'team' AND target_id = $2)
    OR ($3::bigint <> 0 AND target_type = 'company' AND target_id = $3))
  AND ($4 = '' OR module = '' OR module = $4)`, userID, teamID, companyID, module)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Override
	for rows.Next() {
		var o Override
		var targetType, action string
		if err := rows.Scan(&o.ID, &targetType, &o.TargetID, &o.CompanyID, &o.PermissionCode, &o.Module, &action, &o.IsActive, &o.Reason, &o.CreatedBy, &o.CreatedAt, &o.ExpiresAt); err != nil {
			return nil, err
		}
		o.TargetType = TargetType(targetType)
		o.Action = OverrideAction(action)
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpsertAssignment inserts an assignment or reactivates the existing row
// for the same (user, role, company, module). Revoked assignments are
// deactivated rather than deleted, so re-grants hit the conflict path.
func (r *PGRepository) UpsertAssignment(ctx context.Context, a Assignment) (Assignment, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO user_roles (user_id, role_id, company_id, module, is_active, assigned_by, assigned_at, expires_at)
VALUES ($1, $2, NULLIF($3, 0), NULLIF($4, ''), TRUE, NULLIF($5, 0), NOW(), $6)
ON CONFLICT (user_id, role_id, company_key, module_key) DO UPDATE
SET is_active = TRUE, assigned_by = EXCLUDED.assigned_by, assigned_at = NOW(), expires_at = EXCLUDED.expires_at
RETURNING id, assigned_at`, a.UserID, a.RoleID, a.CompanyID, a.Module, a.AssignedBy, a.ExpiresAt)
	if err := row.Scan(&a.ID, &a.AssignedAt); err != nil {
		return Assignment{}, err
	}
	a.IsActive = true
	return a, nil
}

// DeactivateAssignment marks the matching assignment inactive. Returns
// false when no active row matched.
func (r *PGRepository) DeactivateAssignment(ctx context.Context, userID, roleID, companyID int64, module string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE user_roles SET is_active = FALSE
WHERE user_id = $1 AND role_id = $2
  AND company_id IS NOT DISTINCT FROM NULLIF($3::bigint, 0)
  AND module IS NOT DISTINCT FROM NULLIF($4, '')
  AND is_active`, userID, roleID, companyID, module)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CreateOverride inserts an override. The uq_super_plan_grant partial
// unique index keeps at most one active super-plan grant per company;
// losing a concurrent race surfaces as ErrDuplicateGrant.
func (r *PGRepository) CreateOverride(ctx context.Context, o Override) (Override, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO permission_overrides (target_type, target_id, company_id, permission_code, module, action, is_active, reason, created_by, created_at, expires_at)
VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, TRUE, $7, NULLIF($8, 0), NOW(), $9)
RETURNING id, created_at`, string(o.TargetType), o.TargetID, o.CompanyID, o.PermissionCode, o.Module, string(o.Action), o.Reason, o.CreatedBy, o.ExpiresAt)
	if err := row.Scan(&o.ID, &o.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_super_plan_grant" {
			return Override{}, shared.ErrDuplicateGrant
		}
		return Override{}, err
	}
	o.IsActive = true
	return o, nil
}

// DeactivateOverride marks an override inactive by id.
func (r *PGRepository) DeactivateOverride(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE permission_overrides SET is_active = FALSE WHERE id = $1 AND is_active`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeactivateExpired flips expired-but-still-active assignments and
// overrides to inactive. Resolution already ignores expired rows; this
// keeps the partial unique index from blocking a fresh super-plan grant
// behind an expired one.
func (r *PGRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, int64, error) {
	aTag, err := r.pool.Exec(ctx, `UPDATE user_roles SET is_active = FALSE WHERE is_active AND expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, 0, err
	}
	oTag, err := r.pool.Exec(ctx, `UPDATE permission_overrides SET is_active = FALSE WHERE is_active AND expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return aTag.RowsAffected(), 0, err
	}
	return aTag.RowsAffected(), oTag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
