package service

import (
	"errors"
	"time"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/pkg/cryptox"
)

// newInviteToken returns the raw link token and its persisted fingerprint.
func newInviteToken() (token, tokenHash string, err error) {
	token, err = cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", "", err
	}
	return token, cryptox.FingerprintToken(token), nil
}

// newOTP returns the raw 6-digit code and its slow hash. The slow hash keeps
// a leaked database from yielding usable codes within their short window.
func newOTP() (code, codeHash string, err error) {
	code, err = cryptox.GenerateOTP()
	if err != nil {
		return "", "", err
	}
	codeHash, err = cryptox.HashSecret(code)
	if err != nil {
		return "", "", err
	}
	return code, codeHash, nil
}

// verifyOTP checks expiry before the hash, in that order: an expired but
// correct code reports ErrOTPExpired and leaves the invite PENDING.
func verifyOTP(invite domain.Invite, submittedCode string) error {
	if time.Now().After(invite.OTPExpiresAt) {
		return ErrOTPExpired
	}
	if err := cryptox.VerifyHash(submittedCode, invite.OTPHash); err != nil {
		if errors.Is(err, cryptox.ErrHashMismatch) {
			return ErrOTPInvalid
		}
		return err
	}
	return nil
}
