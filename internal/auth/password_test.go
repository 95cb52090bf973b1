package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordVerifierRoundTrip(t *testing.T) {
	t.Parallel()

	v := NewPasswordVerifier(bcrypt.MinCost)

	hash, err := v.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	ok, err := v.Verify("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Error("Expected matching password to verify")
	}

	ok, err = v.Verify("wrong password", hash)
	if err != nil {
		t.Fatalf("Verify returned error on mismatch: %v", err)
	}
	if ok {
		t.Error("Expected mismatched password to fail verification")
	}
}

func TestPasswordVerifierMalformedHash(t *testing.T) {
	t.Parallel()

	v := NewPasswordVerifier(bcrypt.MinCost)

	tests := []struct {
		name       string
		storedHash string
	}{
		{name: "empty hash", storedHash: ""},
		{name: "not a bcrypt hash", storedHash: "plaintext-in-the-database"},
		{name: "truncated hash", storedHash: "$2a$10$tooShort"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, err := v.Verify("any password", tt.storedHash)
			if ok {
				t.Error("Expected verification to fail")
			}
			if !errors.Is(err, ErrBadStoredHash) {
				t.Errorf("Expected ErrBadStoredHash, got %v", err)
			}
		})
	}
}

func TestPasswordVerifierEmptyPassword(t *testing.T) {
	t.Parallel()

	v := NewPasswordVerifier(bcrypt.MinCost)
	if _, err := v.Hash(""); err == nil {
		t.Error("Expected error hashing empty password")
	}
}

func TestPasswordVerifierCostFallback(t *testing.T) {
	t.Parallel()

	// Out-of-range cost falls back to the bcrypt default instead of failing.
	v := NewPasswordVerifier(99)
	if v.cost != bcrypt.DefaultCost {
		t.Errorf("Expected fallback to cost %d, got %d", bcrypt.DefaultCost, v.cost)
	}
}
