package cryptox

import (
	"crypto/rand"
	"fmt"
)

// OTP codes are 6-digit decimal strings in [100000, 999999]. Codes are drawn
// by rejection sampling so every code in the range is exactly equally likely
// (a plain modulo would skew the low end of the range).
const (
	otpMin   = 100000
	otpRange = 900000 // number of valid codes
)

// GenerateOTP returns a uniformly random 6-digit one-time code.
func GenerateOTP() (string, error) {
	// 900000 < 2^20, so three random bytes (24 bits) per draw suffice.
	// Reject draws outside the largest multiple of otpRange to keep the
	// distribution uniform.
	const limit = (1 << 24) / otpRange * otpRange

	buf := make([]byte, 3)
	for {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		n := int(buf[0])<<16 | int(buf[1])<<8 | int(buf[2])
		if n >= limit {
			continue
		}
		return fmt.Sprintf("%06d", otpMin+n%otpRange), nil
	}
}
