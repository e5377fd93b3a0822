package sqlite

import (
	"context"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
)

type sessionsRepo struct {
	q queryer
}

const sessionColumns = `id, token_hash, principal_id, email, company_id, role, expires_at, created_at`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.AccountantSession) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accountant_sessions (id, token_hash, principal_id, email, company_id, role, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.TokenHash, s.PrincipalID, s.Email, s.CompanyID,
		string(s.Role), s.ExpiresAt.UTC(), now())
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, hash string) (domain.AccountantSession, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM accountant_sessions WHERE token_hash = ?`, hash)

	var s domain.AccountantSession
	var role string
	err := row.Scan(&s.ID, &s.TokenHash, &s.PrincipalID, &s.Email,
		&s.CompanyID, &role, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.AccountantSession{}, mapNotFound(err)
	}
	s.Role = domain.Role(role)
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM accountant_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sessionsRepo) DeleteSessionsForPrincipal(ctx context.Context, principalID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM accountant_sessions WHERE principal_id = ?`, principalID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM accountant_sessions WHERE expires_at < ?`, now())
	return err
}
