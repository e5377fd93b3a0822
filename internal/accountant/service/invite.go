package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/internal/accountant/email"
	"github.com/zzpboek/zzpboek/internal/accountant/store"
	"github.com/zzpboek/zzpboek/pkg/cryptox"
	"github.com/zzpboek/zzpboek/pkg/idx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

const (
	// DefaultInviteTTL is the overall validity of an invitation.
	DefaultInviteTTL = 7 * 24 * time.Hour
	// DefaultOTPTTL is the validity of a single verification code.
	DefaultOTPTTL = 10 * time.Minute
)

// OTPPolicy bounds repeated code submissions per invite. MaxAttempts == 0
// disables the lockout entirely; the 10-minute code expiry still applies.
type OTPPolicy struct {
	MaxAttempts int
	Lockout     time.Duration
}

// InviteService orchestrates the invitation lifecycle: creation, resend,
// display validation, acceptance, cancellation, and grant revocation.
type InviteService struct {
	Store         store.Store
	Sessions      *SessionService
	Mailer        email.Sender
	AcceptBaseURL string
	InviteTTL     time.Duration
	OTPTTL        time.Duration
	OTPPolicy     OTPPolicy
}

// InviteSummary is the non-sensitive display data for the public accept page.
type InviteSummary struct {
	CompanyName    string
	MaskedEmail    string
	IsNewPrincipal bool
	Capabilities   domain.Capabilities
}

// AcceptResult is returned on a successful acceptance.
type AcceptResult struct {
	Principal     domain.Principal
	Grant         domain.AccessGrant
	CompanyName   string
	SessionToken  string
	SessionExpiry time.Time
}

func (s *InviteService) inviteTTL() time.Duration {
	if s.InviteTTL > 0 {
		return s.InviteTTL
	}
	return DefaultInviteTTL
}

func (s *InviteService) otpTTL() time.Duration {
	if s.OTPTTL > 0 {
		return s.OTPTTL
	}
	return DefaultOTPTTL
}

// Create issues a new invitation for (companyID, inviteeEmail). Any prior
// PENDING invite for the pair is expired in the same transaction, so at most
// one remains acceptable. The raw token and OTP exist only in the returned
// invite URL and the outgoing email; storage holds hashes.
func (s *InviteService) Create(
	ctx context.Context,
	companyID string,
	inviteeEmail string,
	role domain.Role,
	caps domain.Capabilities,
	createdBy string,
) (domain.Invite, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate the address before anything touches storage.
	inviteeEmail = strings.ToLower(strings.TrimSpace(inviteeEmail))
	if !validEmail(inviteeEmail) {
		return domain.Invite{}, "", ErrEmailInvalid
	}

	// 2. Authorization: only the company owner or a platform admin invites.
	company, err := s.authorizeCompany(ctx, companyID, createdBy)
	if err != nil {
		return domain.Invite{}, "", err
	}

	// 3. An existing ACTIVE grant for this email means nothing to invite.
	if principal, err := s.Store.Principals().GetPrincipalByEmail(ctx, inviteeEmail); err == nil {
		grant, err := s.Store.Grants().GetGrant(ctx, principal.ID, companyID)
		if err == nil && grant.Status == domain.GrantActive {
			return domain.Invite{}, "", ErrAlreadyMember
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, "", err
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Invite{}, "", err
	}

	// 4. Generate credentials. Token is the link secret, OTP the typed one.
	token, tokenHash, err := newInviteToken()
	if err != nil {
		return domain.Invite{}, "", err
	}
	otp, otpHash, err := newOTP()
	if err != nil {
		return domain.Invite{}, "", err
	}

	invite := domain.Invite{
		ID:           idx.New().String(),
		CompanyID:    companyID,
		Email:        inviteeEmail,
		Role:         role,
		TokenHash:    tokenHash,
		OTPHash:      otpHash,
		OTPExpiresAt: time.Now().Add(s.otpTTL()),
		ExpiresAt:    time.Now().Add(s.inviteTTL()),
		Status:       domain.InvitePending,
		Capabilities: caps,
		CreatedBy:    createdBy,
	}

	// 5. Expire the prior PENDING invite and create the new one atomically,
	// so two concurrent creates cannot both slip past the lookup. The
	// partial unique index on (company, email, PENDING) backs this up.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		prior, err := tx.Invites().GetPendingInvite(ctx, companyID, inviteeEmail)
		if err == nil {
			if err := tx.Invites().UpdateInviteStatus(ctx, prior.ID, domain.InviteExpired, "", nil); err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Invites().CreateInvite(ctx, invite); err != nil {
			return err
		}

		return tx.AuditEvents().AppendAuditEvent(ctx, domain.AuditEvent{
			ID:          idx.New().String(),
			CompanyID:   companyID,
			PrincipalID: createdBy,
			Kind:        domain.AuditInviteCreated,
			Detail:      maskEmail(inviteeEmail),
		})
	})
	if err != nil {
		log.Error("failed to create invite",
			slog.String("company_id", companyID),
			slog.Any("error", err),
		)
		return domain.Invite{}, "", err
	}

	log.Info("invite created",
		slog.String("invite_id", invite.ID),
		slog.String("company_id", companyID),
		slog.String("token_prefix", tokenHash[:8]),
	)

	// 6. Mail delivery stays outside the transaction. A failed send is
	// logged only; the invite URL can still be shared manually.
	inviteURL := s.sendInviteMail(ctx, company.Name, inviteeEmail, token, otp)

	return invite, inviteURL, nil
}

// Resend rotates the token and OTP of a PENDING invite and extends only the
// OTP expiry. The previously emailed link stops working since the token
// rotates with the code.
func (s *InviteService) Resend(ctx context.Context, inviteID, requestedBy string) (domain.Invite, string, error) {
	log := slogx.FromContext(ctx)

	invite, err := s.Store.Invites().GetInviteByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, "", ErrInviteNotFound
		}
		return domain.Invite{}, "", err
	}

	company, err := s.authorizeCompany(ctx, invite.CompanyID, requestedBy)
	if err != nil {
		return domain.Invite{}, "", err
	}

	if invite.Status != domain.InvitePending || time.Now().After(invite.ExpiresAt) {
		return domain.Invite{}, "", ErrResendNotAllowed
	}

	token, tokenHash, err := newInviteToken()
	if err != nil {
		return domain.Invite{}, "", err
	}
	otp, otpHash, err := newOTP()
	if err != nil {
		return domain.Invite{}, "", err
	}

	otpExpiry := time.Now().Add(s.otpTTL())
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invites().RotateInviteCredentials(ctx, invite.ID, tokenHash, otpHash, otpExpiry); err != nil {
			return err
		}
		return tx.AuditEvents().AppendAuditEvent(ctx, domain.AuditEvent{
			ID:          idx.New().String(),
			CompanyID:   invite.CompanyID,
			PrincipalID: requestedBy,
			Kind:        domain.AuditInviteResent,
			Detail:      maskEmail(invite.Email),
		})
	})
	if err != nil {
		return domain.Invite{}, "", err
	}

	invite.TokenHash = tokenHash
	invite.OTPHash = otpHash
	invite.OTPExpiresAt = otpExpiry
	invite.OTPAttempts = 0
	invite.LockedUntil = nil

	log.Info("invite credentials rotated",
		slog.String("invite_id", invite.ID),
		slog.String("token_prefix", tokenHash[:8]),
	)

	inviteURL := s.sendInviteMail(ctx, company.Name, invite.Email, token, otp)
	return invite, inviteURL, nil
}

// ValidateForDisplay resolves a raw link token to the non-sensitive display
// data for the accept page. The response shape never reveals whether the
// invited address has an existing account beyond the masked form.
func (s *InviteService) ValidateForDisplay(ctx context.Context, plainToken string) (InviteSummary, error) {
	invite, err := s.lookupAcceptable(ctx, plainToken)
	if err != nil {
		return InviteSummary{}, err
	}

	company, err := s.Store.Companies().GetCompanyByID(ctx, invite.CompanyID)
	if err != nil {
		return InviteSummary{}, err
	}

	isNew := false
	if _, err := s.Store.Principals().GetPrincipalByEmail(ctx, invite.Email); errors.Is(err, store.ErrNotFound) {
		isNew = true
	} else if err != nil {
		return InviteSummary{}, err
	}

	return InviteSummary{
		CompanyName:    company.Name,
		MaskedEmail:    maskEmail(invite.Email),
		IsNewPrincipal: isNew,
		Capabilities:   invite.Capabilities,
	}, nil
}

// Accept completes an invitation: it verifies token and OTP, finds or creates
// the principal, upserts the access grant, marks the invite ACCEPTED, and
// issues an accountant session. The storage writes happen in one transaction;
// a partial failure never leaves an onboarded principal without a grant.
func (s *InviteService) Accept(ctx context.Context, plainToken, submittedCode string) (AcceptResult, error) {
	log := slogx.FromContext(ctx)

	invite, err := s.lookupAcceptable(ctx, plainToken)
	if err != nil {
		return AcceptResult{}, err
	}

	if err := s.verifySubmittedOTP(ctx, invite, submittedCode); err != nil {
		return AcceptResult{}, err
	}

	// Defensive: creation validates the address, but an invite row with a
	// broken email must not mint a principal.
	if !validEmail(invite.Email) {
		return AcceptResult{}, ErrEmailInvalid
	}

	company, err := s.Store.Companies().GetCompanyByID(ctx, invite.CompanyID)
	if err != nil {
		return AcceptResult{}, err
	}

	var result AcceptResult
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		principal, err := findOrCreatePrincipal(ctx, tx, invite.Email, invite.Role)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGrantLinkFailed, err)
		}

		grant, err := upsertGrant(ctx, tx, principal.ID, invite)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGrantLinkFailed, err)
		}

		acceptedAt := time.Now().UTC()
		if err := tx.Invites().UpdateInviteStatus(ctx, invite.ID, domain.InviteAccepted, principal.ID, &acceptedAt); err != nil {
			// The guarded update only touches PENDING rows; losing the race
			// to a concurrent accept reads the same as a consumed invite.
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteUsed
			}
			return err
		}

		if err := tx.AuditEvents().AppendAuditEvent(ctx, domain.AuditEvent{
			ID:          idx.New().String(),
			CompanyID:   invite.CompanyID,
			PrincipalID: principal.ID,
			Kind:        domain.AuditInviteAccepted,
			Detail:      maskEmail(invite.Email),
		}); err != nil {
			return err
		}

		token, expiry, err := s.Sessions.issueIn(ctx, tx, principal.ID, principal.Email, invite.CompanyID, invite.Role)
		if err != nil {
			return err
		}

		result = AcceptResult{
			Principal:     principal,
			Grant:         grant,
			CompanyName:   company.Name,
			SessionToken:  token,
			SessionExpiry: expiry,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrGrantLinkFailed) {
			log.Error("grant link failed during acceptance",
				slog.String("invite_id", invite.ID),
				slog.Any("error", err),
			)
		}
		return AcceptResult{}, err
	}

	log.Info("invite accepted",
		slog.String("invite_id", invite.ID),
		slog.String("company_id", invite.CompanyID),
		slog.String("principal_id", result.Principal.ID),
	)

	return result, nil
}

// RevokeGrant sets an access grant to REVOKED. History is retained; live
// sessions bound to the grant become invalid on their next validation.
func (s *InviteService) RevokeGrant(ctx context.Context, grantID, requestedBy string) error {
	grant, err := s.Store.Grants().GetGrantByID(ctx, grantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrGrantNotFound
		}
		return err
	}

	if _, err := s.authorizeCompany(ctx, grant.CompanyID, requestedBy); err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Grants().UpdateGrant(ctx, grant.ID, domain.GrantRevoked, grant.Role, grant.Capabilities); err != nil {
			return err
		}
		return tx.AuditEvents().AppendAuditEvent(ctx, domain.AuditEvent{
			ID:          idx.New().String(),
			CompanyID:   grant.CompanyID,
			PrincipalID: requestedBy,
			Kind:        domain.AuditGrantRevoked,
			Detail:      grant.PrincipalID,
		})
	})
}

// CancelPendingInvite revokes an unaccepted invite. Distinct from grant
// revocation: this withdraws an invitation that was never completed.
func (s *InviteService) CancelPendingInvite(ctx context.Context, inviteID, requestedBy string) error {
	invite, err := s.Store.Invites().GetInviteByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		return err
	}

	if _, err := s.authorizeCompany(ctx, invite.CompanyID, requestedBy); err != nil {
		return err
	}

	if invite.Status != domain.InvitePending {
		return ErrInviteNotFound
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invites().UpdateInviteStatus(ctx, invite.ID, domain.InviteRevoked, "", nil); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteNotFound
			}
			return err
		}
		return tx.AuditEvents().AppendAuditEvent(ctx, domain.AuditEvent{
			ID:          idx.New().String(),
			CompanyID:   invite.CompanyID,
			PrincipalID: requestedBy,
			Kind:        domain.AuditInviteCancelled,
			Detail:      maskEmail(invite.Email),
		})
	})
}

// ListPending returns the open invitations of a company for the owner UI.
func (s *InviteService) ListPending(ctx context.Context, companyID, requestedBy string) ([]domain.Invite, error) {
	if _, err := s.authorizeCompany(ctx, companyID, requestedBy); err != nil {
		return nil, err
	}
	return s.Store.Invites().ListPendingInvites(ctx, companyID)
}

// GrantView pairs a grant with the holder's email for listings.
type GrantView struct {
	domain.AccessGrant
	Email string
}

// ListGrants returns the grants of a company, active and revoked, with the
// holding principal's email resolved.
func (s *InviteService) ListGrants(ctx context.Context, companyID, requestedBy string) ([]GrantView, error) {
	if _, err := s.authorizeCompany(ctx, companyID, requestedBy); err != nil {
		return nil, err
	}

	grants, err := s.Store.Grants().ListGrantsForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	views := make([]GrantView, 0, len(grants))
	for _, g := range grants {
		view := GrantView{AccessGrant: g}
		if principal, err := s.Store.Principals().GetPrincipalByID(ctx, g.PrincipalID); err == nil {
			view.Email = principal.Email
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// lookupAcceptable fingerprints the token, loads the invite, and maps every
// non-acceptable state to its stable error.
func (s *InviteService) lookupAcceptable(ctx context.Context, plainToken string) (domain.Invite, error) {
	if plainToken == "" {
		return domain.Invite{}, ErrInviteNotFound
	}

	invite, err := s.Store.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(plainToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, ErrInviteNotFound
		}
		return domain.Invite{}, err
	}

	switch invite.Status {
	case domain.InviteAccepted:
		return domain.Invite{}, ErrInviteUsed
	case domain.InviteRevoked:
		return domain.Invite{}, ErrInviteRevoked
	case domain.InviteExpired:
		return domain.Invite{}, ErrInviteExpired
	}

	if time.Now().After(invite.ExpiresAt) {
		return domain.Invite{}, ErrInviteExpired
	}

	return invite, nil
}

// verifySubmittedOTP applies the lockout policy around the plain OTP check.
// Expiry is checked before the hash so an expired-but-correct code reports
// OTP_EXPIRED, not OTP_INVALID.
func (s *InviteService) verifySubmittedOTP(ctx context.Context, invite domain.Invite, code string) error {
	log := slogx.FromContext(ctx)

	if invite.LockedUntil != nil && time.Now().Before(*invite.LockedUntil) {
		return ErrOTPLocked
	}

	err := verifyOTP(invite, code)
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrOTPInvalid) && s.OTPPolicy.MaxAttempts > 0 {
		attempts, incErr := s.Store.Invites().IncrementOTPAttempts(ctx, invite.ID)
		if incErr != nil {
			log.Error("failed to record otp attempt", slog.Any("error", incErr))
			return err
		}
		if attempts >= s.OTPPolicy.MaxAttempts {
			until := time.Now().Add(s.OTPPolicy.Lockout)
			if lockErr := s.Store.Invites().SetInviteLock(ctx, invite.ID, &until); lockErr != nil {
				log.Error("failed to lock invite", slog.Any("error", lockErr))
			}
			log.Warn("invite locked after repeated otp failures",
				slog.String("invite_id", invite.ID),
				slog.Int("attempts", attempts),
			)
		}
	}

	return err
}

// sendInviteMail renders and delivers the invitation, returning the accept
// URL so callers can surface it even when delivery fails.
func (s *InviteService) sendInviteMail(ctx context.Context, companyName, to, token, otp string) string {
	log := slogx.FromContext(ctx)

	m := email.RenderInvite(to, companyName, s.AcceptBaseURL, token, otp)
	if s.Mailer != nil {
		if err := s.Mailer.Send(m.To, m.Subject, m.HTML, m.Text); err != nil {
			log.Error("failed to send invite email",
				slog.String("to", maskEmail(to)),
				slog.Any("error", err),
			)
		}
	}

	return fmt.Sprintf("%s?token=%s", s.AcceptBaseURL, token)
}

// authorizeCompany loads the company and verifies the requesting principal
// owns it or holds the platform admin role.
func (s *InviteService) authorizeCompany(ctx context.Context, companyID, principalID string) (domain.Company, error) {
	company, err := s.Store.Companies().GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, ErrCompanyNotFound
		}
		return domain.Company{}, err
	}

	if company.OwnerID == principalID {
		return company, nil
	}

	principal, err := s.Store.Principals().GetPrincipalByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, ErrForbidden
		}
		return domain.Company{}, err
	}
	if principal.Role != domain.RoleAdmin {
		return domain.Company{}, ErrForbidden
	}
	return company, nil
}

// findOrCreatePrincipal returns the principal for an email, creating an
// accountant-only identity when none exists. New principals get a throwaway
// password, verified email, and skip onboarding.
func findOrCreatePrincipal(ctx context.Context, tx store.Tx, emailAddr string, role domain.Role) (domain.Principal, error) {
	principal, err := tx.Principals().GetPrincipalByEmail(ctx, emailAddr)
	if err == nil {
		return principal, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Principal{}, err
	}

	placeholder, err := cryptox.GeneratePassword()
	if err != nil {
		return domain.Principal{}, err
	}
	hash, err := cryptox.HashSecret(placeholder)
	if err != nil {
		return domain.Principal{}, err
	}

	principal = domain.Principal{
		ID:             idx.New().String(),
		Email:          emailAddr,
		PasswordHash:   hash,
		Role:           role,
		EmailVerified:  true,
		OnboardingDone: true,
	}
	if err := tx.Principals().CreatePrincipal(ctx, principal); err != nil {
		return domain.Principal{}, err
	}
	return principal, nil
}

// upsertGrant re-activates the existing (principal, company) edge with the
// invite's capability set, or creates it. Acceptance is idempotent at the
// grant level: an already ACTIVE grant is returned as-is.
func upsertGrant(ctx context.Context, tx store.Tx, principalID string, invite domain.Invite) (domain.AccessGrant, error) {
	grant, err := tx.Grants().GetGrant(ctx, principalID, invite.CompanyID)
	if err == nil {
		if err := tx.Grants().UpdateGrant(ctx, grant.ID, domain.GrantActive, invite.Role, invite.Capabilities); err != nil {
			return domain.AccessGrant{}, err
		}
		grant.Status = domain.GrantActive
		grant.Role = invite.Role
		grant.Capabilities = invite.Capabilities
		return grant, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.AccessGrant{}, err
	}

	grant = domain.AccessGrant{
		ID:           idx.New().String(),
		PrincipalID:  principalID,
		CompanyID:    invite.CompanyID,
		Role:         invite.Role,
		Capabilities: invite.Capabilities,
		Status:       domain.GrantActive,
	}
	if err := tx.Grants().CreateGrant(ctx, grant); err != nil {
		return domain.AccessGrant{}, err
	}
	return grant, nil
}

func validEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// maskEmail keeps the first character and the domain: "a***@example.com".
func maskEmail(s string) string {
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		return "***"
	}
	return s[:1] + "***" + s[at:]
}
