package sqlite

import (
	"context"
	"database/sql"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
)

type grantsRepo struct {
	q queryer
}

const grantColumns = `id, principal_id, company_id, role, can_read, can_edit, can_export, can_btw, status, created_at, updated_at`

func (r *grantsRepo) CreateGrant(ctx context.Context, g domain.AccessGrant) error {
	ts := now()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO access_grants (id, principal_id, company_id, role, can_read, can_edit, can_export, can_btw, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.PrincipalID, g.CompanyID, string(g.Role),
		g.Capabilities.CanRead, g.Capabilities.CanEdit,
		g.Capabilities.CanExport, g.Capabilities.CanBTW,
		string(g.Status), ts, ts)
	return mapConstraint(err)
}

func (r *grantsRepo) GetGrantByID(ctx context.Context, id string) (domain.AccessGrant, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+grantColumns+` FROM access_grants WHERE id = ?`, id)
	return scanGrant(row)
}

func (r *grantsRepo) GetGrant(ctx context.Context, principalID, companyID string) (domain.AccessGrant, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+grantColumns+` FROM access_grants
		 WHERE principal_id = ? AND company_id = ?`,
		principalID, companyID)
	return scanGrant(row)
}

func (r *grantsRepo) ListGrantsForPrincipal(ctx context.Context, principalID string) ([]domain.AccessGrant, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+grantColumns+` FROM access_grants
		 WHERE principal_id = ?
		 ORDER BY created_at DESC, id DESC`,
		principalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGrants(rows)
}

func (r *grantsRepo) ListGrantsForCompany(ctx context.Context, companyID string) ([]domain.AccessGrant, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+grantColumns+` FROM access_grants
		 WHERE company_id = ?
		 ORDER BY created_at DESC, id DESC`,
		companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGrants(rows)
}

func (r *grantsRepo) UpdateGrant(
	ctx context.Context,
	id string,
	status domain.GrantStatus,
	role domain.Role,
	caps domain.Capabilities,
) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE access_grants
		 SET status = ?, role = ?, can_read = ?, can_edit = ?, can_export = ?, can_btw = ?, updated_at = ?
		 WHERE id = ?`,
		string(status), string(role),
		caps.CanRead, caps.CanEdit, caps.CanExport, caps.CanBTW,
		now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func collectGrants(rows *sql.Rows) ([]domain.AccessGrant, error) {
	var grants []domain.AccessGrant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func scanGrant(row rowScanner) (domain.AccessGrant, error) {
	var g domain.AccessGrant
	var role, status string
	err := row.Scan(&g.ID, &g.PrincipalID, &g.CompanyID, &role,
		&g.Capabilities.CanRead, &g.Capabilities.CanEdit,
		&g.Capabilities.CanExport, &g.Capabilities.CanBTW,
		&status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return domain.AccessGrant{}, mapNotFound(err)
	}
	g.Role = domain.Role(role)
	g.Status = domain.GrantStatus(status)
	return g, nil
}
