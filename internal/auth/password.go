package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier compares plaintext credentials against stored bcrypt
// hashes. It holds no state beyond the hashing cost and is safe for
// concurrent use.
type PasswordVerifier struct {
	cost int
}

// NewPasswordVerifier creates a verifier. Cost outside bcrypt's valid range
// falls back to the library default.
func NewPasswordVerifier(cost int) *PasswordVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordVerifier{cost: cost}
}

// Verify reports whether plaintext matches the stored bcrypt hash. A
// mismatch is (false, nil). The error return is reserved for a malformed
// stored hash, which is an operational fault rather than an auth failure.
// The plaintext is never logged or retained.
func (v *PasswordVerifier) Verify(plaintext, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrBadStoredHash, err)
}

// Hash generates a bcrypt hash of plaintext at the configured cost. Used by
// the configure CLI when creating users or rotating passwords.
func (v *PasswordVerifier) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), v.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
