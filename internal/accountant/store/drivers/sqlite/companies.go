package sqlite

import (
	"context"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
)

type companiesRepo struct {
	q queryer
}

const companyColumns = `id, name, owner_id, kvk, created_at, updated_at`

func (r *companiesRepo) GetCompanyByID(ctx context.Context, id string) (domain.Company, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
	return scanCompany(row)
}

func (r *companiesRepo) GetCompanyByOwner(ctx context.Context, ownerID string) (domain.Company, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE owner_id = ? ORDER BY created_at LIMIT 1`,
		ownerID)
	return scanCompany(row)
}

func (r *companiesRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	ts := now()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO companies (id, name, owner_id, kvk, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.OwnerID, c.KvK, ts, ts)
	return mapConstraint(err)
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.ID, &c.Name, &c.OwnerID, &c.KvK, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Company{}, mapNotFound(err)
	}
	return c, nil
}
