package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMalformed means the token could not be parsed as a JWT.
	ErrMalformed = errors.New("malformed token")

	// ErrInvalidSignature means the signature does not verify against the
	// configured secret (tampering or a different key).
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrExpired means the token's expiry is at or before the current time.
	ErrExpired = errors.New("token expired")

	// ErrWeakSecret is a configuration fault: the signing secret does not
	// carry enough key material for HS256.
	ErrWeakSecret = errors.New("signing secret too short")

	// ErrBadStoredHash is a configuration fault: the stored password hash is
	// not a valid bcrypt hash. It is never a user-facing auth failure.
	ErrBadStoredHash = errors.New("malformed stored password hash")
)
