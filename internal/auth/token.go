package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// MinSecretBytes is the minimum signing secret length accepted by the codec
// (256 bits of key material for HS256).
const MinSecretBytes = 32

const (
	roleClaim = "role"
	nameClaim = "name"
)

// Claims is the identity payload embedded in a token. Timestamps are
// truncated to whole seconds because that is all a JWT can carry.
type Claims struct {
	Subject   string
	Role      string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewClaims builds claims for a user identified by subject, valid for ttl
// from now.
func NewClaims(subject, role, name string, ttl time.Duration) Claims {
	now := time.Now().UTC().Truncate(time.Second)
	return Claims{
		Subject:   subject,
		Role:      role,
		Name:      name,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// TokenCodec signs and validates HS256 JWTs. The secret is immutable after
// construction, so a single codec is safe for unsynchronized concurrent use
// across request handlers.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec. A secret shorter than MinSecretBytes is a
// configuration error and must prevent startup.
func NewTokenCodec(secret []byte) (*TokenCodec, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrWeakSecret, MinSecretBytes, len(secret))
	}
	return &TokenCodec{secret: secret}, nil
}

// Issue serializes claims into a signed compact token string.
func (c *TokenCodec) Issue(claims Claims) (string, error) {
	if claims.Subject == "" {
		return "", fmt.Errorf("claims subject cannot be empty")
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		return "", fmt.Errorf("claims expiry %s is not after issuance %s", claims.ExpiresAt, claims.IssuedAt)
	}

	tok, err := jwt.NewBuilder().
		Subject(claims.Subject).
		IssuedAt(claims.IssuedAt).
		Expiration(claims.ExpiresAt).
		Claim(roleClaim, claims.Role).
		Claim(nameClaim, claims.Name).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, c.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}

// Validate verifies the signature and expiry of tokenString and returns the
// embedded claims. Failures map to ErrMalformed, ErrInvalidSignature or
// ErrExpired. No claim is trusted before the signature verifies, and only
// HS256 signatures are accepted.
func (c *TokenCodec) Validate(tokenString string) (*Claims, error) {
	data := []byte(tokenString)

	// Structural parse first, without trusting anything, so an unparseable
	// token is reported as malformed rather than as a signature failure.
	if _, err := jwt.Parse(data, jwt.WithVerify(false), jwt.WithValidate(false)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	tok, err := jwt.Parse(data, jwt.WithKey(jwa.HS256, c.secret), jwt.WithValidate(false))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if err := jwt.Validate(tok); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	claims := &Claims{
		Subject:   tok.Subject(),
		IssuedAt:  tok.IssuedAt(),
		ExpiresAt: tok.Expiration(),
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformed)
	}
	if role, ok := tok.Get(roleClaim); ok {
		claims.Role, _ = role.(string)
	}
	if name, ok := tok.Get(nameClaim); ok {
		claims.Name, _ = name.(string)
	}
	return claims, nil
}
