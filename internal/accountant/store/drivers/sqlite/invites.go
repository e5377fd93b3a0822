package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/internal/accountant/store"
)

type invitesRepo struct {
	q queryer
}

const inviteColumns = `id, company_id, email, role, token_hash, otp_hash, otp_expires_at,
	expires_at, status, can_read, can_edit, can_export, can_btw, otp_attempts,
	locked_until, accepted_at, accepted_by, created_by, created_at, updated_at`

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	ts := now()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO invites (id, company_id, email, role, token_hash, otp_hash, otp_expires_at,
			expires_at, status, can_read, can_edit, can_export, can_btw, otp_attempts,
			locked_until, accepted_at, accepted_by, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.CompanyID, strings.ToLower(inv.Email), string(inv.Role),
		inv.TokenHash, inv.OTPHash, inv.OTPExpiresAt.UTC(),
		inv.ExpiresAt.UTC(), string(inv.Status),
		inv.Capabilities.CanRead, inv.Capabilities.CanEdit,
		inv.Capabilities.CanExport, inv.Capabilities.CanBTW,
		inv.OTPAttempts, mapOptionalTime(inv.LockedUntil),
		mapOptionalTime(inv.AcceptedAt), mapStringNull(inv.AcceptedBy),
		inv.CreatedBy, ts, ts)
	return mapConstraint(err)
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE id = ?`, id)
	return scanInvite(row)
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token_hash = ?`, hash)
	return scanInvite(row)
}

func (r *invitesRepo) GetPendingInvite(ctx context.Context, companyID, email string) (domain.Invite, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites
		 WHERE company_id = ? AND email = ? AND status = 'PENDING'`,
		companyID, strings.ToLower(email))
	return scanInvite(row)
}

func (r *invitesRepo) ListPendingInvites(ctx context.Context, companyID string) ([]domain.Invite, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM invites
		 WHERE company_id = ? AND status = 'PENDING'
		 ORDER BY created_at DESC, id DESC`,
		companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *invitesRepo) UpdateInviteStatus(
	ctx context.Context,
	id string,
	status domain.InviteStatus,
	acceptedBy string,
	acceptedAt *time.Time,
) error {
	// PENDING is the only non-terminal state, so guarding on it makes every
	// transition single-shot: two concurrent accepts cannot both succeed.
	res, err := r.q.ExecContext(ctx,
		`UPDATE invites SET status = ?, accepted_by = ?, accepted_at = ?, updated_at = ?
		 WHERE id = ? AND status = 'PENDING'`,
		string(status), mapStringNull(acceptedBy), mapOptionalTime(acceptedAt), now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitesRepo) RotateInviteCredentials(
	ctx context.Context,
	id, tokenHash, otpHash string,
	otpExpiresAt time.Time,
) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE invites
		 SET token_hash = ?, otp_hash = ?, otp_expires_at = ?, otp_attempts = 0,
		     locked_until = NULL, updated_at = ?
		 WHERE id = ?`,
		tokenHash, otpHash, otpExpiresAt.UTC(), now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitesRepo) IncrementOTPAttempts(ctx context.Context, id string) (int, error) {
	row := r.q.QueryRowContext(ctx,
		`UPDATE invites SET otp_attempts = otp_attempts + 1, updated_at = ?
		 WHERE id = ?
		 RETURNING otp_attempts`,
		now(), id)

	var attempts int
	if err := row.Scan(&attempts); err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *invitesRepo) SetInviteLock(ctx context.Context, id string, until *time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE invites SET locked_until = ?, updated_at = ? WHERE id = ?`,
		mapOptionalTime(until), now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitesRepo) ExpireOverdueInvites(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE invites SET status = 'EXPIRED', updated_at = ?
		 WHERE status = 'PENDING' AND expires_at < ?`,
		now(), now())
	return err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanInvite(row rowScanner) (domain.Invite, error) {
	var (
		inv        domain.Invite
		role       string
		status     string
		locked     sql.NullTime
		acceptedAt sql.NullTime
		acceptedBy sql.NullString
	)
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.Email, &role,
		&inv.TokenHash, &inv.OTPHash, &inv.OTPExpiresAt,
		&inv.ExpiresAt, &status,
		&inv.Capabilities.CanRead, &inv.Capabilities.CanEdit,
		&inv.Capabilities.CanExport, &inv.Capabilities.CanBTW,
		&inv.OTPAttempts, &locked, &acceptedAt, &acceptedBy,
		&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	inv.Role = domain.Role(role)
	inv.Status = domain.InviteStatus(status)
	inv.LockedUntil = mapNullTimePtr(locked)
	inv.AcceptedAt = mapNullTimePtr(acceptedAt)
	inv.AcceptedBy = mapNullString(acceptedBy)
	return inv, nil
}
