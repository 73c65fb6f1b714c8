package modules

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for module enablement.
type Repository interface {
	ListDefinitions(ctx context.Context) ([]Definition, error)
	ListEnabledCodes(ctx context.Context, companyID int64) ([]string, error)
	SetEnabled(ctx context.Context, companyID int64, code string, enabled bool) (bool, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListDefinitions returns the module catalog.
func (r *PGRepository) ListDefinitions(ctx context.Context) ([]Definition, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, display_name, is_active FROM module_definitions ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var defs []Definition
	for rows.Next() {
		var d Definition
		if err := rows.Scan(&d.ID, &d.Code, &d.DisplayName, &d.IsActive); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// ListEnabledCodes returns the codes of modules currently enabled for a
// company. Disabled catalog entries never count even when the company
// row says enabled.
func (r *PGRepository) ListEnabledCodes(ctx context.Context, companyID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT md.code
FROM company_modules cm
JOIN module_definitions md ON md.id = cm.module_id
WHERE cm.company_id = $1 AND cm.enabled AND cm.is_active AND md.is_active
ORDER BY md.code`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// SetEnabled flips a company's enablement for the module, inserting the
// row on first enablement. Returns false when the module code is unknown.
func (r *PGRepository) SetEnabled(ctx context.Context, companyID int64, code string, enabled bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `INSERT INTO company_modules (company_id, module_id, enabled, is_active, enabled_at)
SELECT $1, md.id, $3, TRUE, NOW() FROM module_definitions md WHERE md.code = $2
ON CONFLICT (company_id, module_id) DO UPDATE SET enabled = EXCLUDED.enabled, is_active = TRUE, enabled_at = NOW()`, companyID, code, enabled)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var _ Repository = (*PGRepository)(nil)
