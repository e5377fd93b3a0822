package sqlite

import (
	"context"
	"strings"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
)

type principalsRepo struct {
	q queryer
}

const principalColumns = `id, email, password_hash, role, email_verified, onboarding_done, created_at, updated_at`

func (r *principalsRepo) GetPrincipalByID(ctx context.Context, id string) (domain.Principal, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE id = ?`, id)
	return scanPrincipal(row)
}

func (r *principalsRepo) GetPrincipalByEmail(ctx context.Context, email string) (domain.Principal, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE email = ?`,
		strings.ToLower(email))
	return scanPrincipal(row)
}

func (r *principalsRepo) CreatePrincipal(ctx context.Context, p domain.Principal) error {
	ts := now()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO principals (id, email, password_hash, role, email_verified, onboarding_done, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, strings.ToLower(p.Email), p.PasswordHash, string(p.Role),
		p.EmailVerified, p.OnboardingDone, ts, ts)
	return mapConstraint(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrincipal(row rowScanner) (domain.Principal, error) {
	var p domain.Principal
	var role string
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &role,
		&p.EmailVerified, &p.OnboardingDone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Principal{}, mapNotFound(err)
	}
	p.Role = domain.Role(role)
	return p, nil
}
