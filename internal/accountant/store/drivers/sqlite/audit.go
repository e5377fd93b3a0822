package sqlite

import (
	"context"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
)

type auditRepo struct {
	q queryer
}

func (r *auditRepo) AppendAuditEvent(ctx context.Context, e domain.AuditEvent) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO audit_events (id, company_id, principal_id, kind, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.CompanyID, e.PrincipalID, string(e.Kind), e.Detail, now())
	return err
}

func (r *auditRepo) ListAuditEventsForCompany(ctx context.Context, companyID string, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT id, company_id, principal_id, kind, detail, created_at
		 FROM audit_events
		 WHERE company_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		var kind string
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.PrincipalID, &kind, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = domain.AuditKind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}
