package cryptox

import (
	"crypto/rand"
	"fmt"
)

// GeneratePassword returns a 16-character random password from a mixed
// alphabet. It exists only to fill the password column of principals created
// through invite acceptance; those principals authenticate via invite/OTP and
// the accountant session, never with this password.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
	const length = 16

	// Rejection sampling over single bytes keeps the draw uniform:
	// 256 % len(charset) != 0, so plain modulo would bias early characters.
	limit := 256 / len(charset) * len(charset)

	password := make([]byte, 0, length)
	buf := make([]byte, 1)
	for len(password) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		if int(buf[0]) >= limit {
			continue
		}
		password = append(password, charset[int(buf[0])%len(charset)])
	}
	return string(password), nil
}
