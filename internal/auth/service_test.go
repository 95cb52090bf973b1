package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/portalteam/auth-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	users map[string]*models.User
	err   error
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[email], nil
}

type fakeAuditSink struct {
	attempts []LoginAttempt
	err      error
}

func (s *fakeAuditSink) RecordLoginAttempt(_ context.Context, attempt LoginAttempt) error {
	s.attempts = append(s.attempts, attempt)
	return s.err
}

func newTestService(t *testing.T, store UserStore, audit AuditSink) *Service {
	t.Helper()
	codec, err := NewTokenCodec(testSecret)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	return NewService(store, NewPasswordVerifier(bcrypt.MinCost), codec, time.Hour, audit, nil)
}

func storeWithUser(t *testing.T, email, password string) *fakeUserStore {
	t.Helper()
	hash, err := NewPasswordVerifier(bcrypt.MinCost).Hash(password)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	return &fakeUserStore{users: map[string]*models.User{
		email: {
			ID:           uuid.New(),
			Email:        email,
			Name:         "Test User",
			Role:         models.RoleUser,
			PasswordHash: hash,
		},
	}}
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	store := storeWithUser(t, "a@x.com", "correct")
	audit := &fakeAuditSink{}
	svc := newTestService(t, store, audit)

	result, err := svc.Login(context.Background(), "a@x.com", "correct", "203.0.113.7")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if result.User.Email != "a@x.com" {
		t.Errorf("Expected user email 'a@x.com', got %q", result.User.Email)
	}
	if result.User.Role != models.RoleUser {
		t.Errorf("Expected role %q, got %q", models.RoleUser, result.User.Role)
	}

	// The issued token must validate and carry the email as subject.
	codec, err := NewTokenCodec(testSecret)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	claims, err := codec.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.Subject != "a@x.com" {
		t.Errorf("Expected token subject 'a@x.com', got %q", claims.Subject)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Error("Expected token expiry after issuance")
	}

	if len(audit.attempts) != 1 || !audit.attempts[0].Success {
		t.Errorf("Expected one successful audit attempt, got %+v", audit.attempts)
	}
	if audit.attempts[0].RemoteIP != "203.0.113.7" {
		t.Errorf("Expected audit remote IP '203.0.113.7', got %q", audit.attempts[0].RemoteIP)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	store := storeWithUser(t, "a@x.com", "correct")
	svc := newTestService(t, store, nil)

	unknownErr := func() error {
		_, err := svc.Login(context.Background(), "nobody@x.com", "correct", "")
		return err
	}()
	wrongPwErr := func() error {
		_, err := svc.Login(context.Background(), "a@x.com", "wrong", "")
		return err
	}()

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", unknownErr)
	}
	if !errors.Is(wrongPwErr, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", wrongPwErr)
	}
	// Both cases must surface the identical error value to the caller.
	if unknownErr.Error() != wrongPwErr.Error() {
		t.Errorf("Unknown-email and wrong-password errors differ: %q vs %q", unknownErr, wrongPwErr)
	}
}

func TestLoginAuditRecordsFailures(t *testing.T) {
	t.Parallel()

	store := storeWithUser(t, "a@x.com", "correct")
	audit := &fakeAuditSink{}
	svc := newTestService(t, store, audit)

	_, _ = svc.Login(context.Background(), "nobody@x.com", "x", "198.51.100.2")
	_, _ = svc.Login(context.Background(), "a@x.com", "wrong", "198.51.100.2")

	if len(audit.attempts) != 2 {
		t.Fatalf("Expected 2 audit attempts, got %d", len(audit.attempts))
	}
	for i, attempt := range audit.attempts {
		if attempt.Success {
			t.Errorf("Attempt %d: expected failure, got success", i)
		}
	}
}

func TestLoginAuditErrorDoesNotFailLogin(t *testing.T) {
	t.Parallel()

	store := storeWithUser(t, "a@x.com", "correct")
	audit := &fakeAuditSink{err: errors.New("queue down")}
	svc := newTestService(t, store, audit)

	if _, err := svc.Login(context.Background(), "a@x.com", "correct", ""); err != nil {
		t.Errorf("Expected login to succeed despite audit error, got %v", err)
	}
}

func TestLoginMalformedStoredHash(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{users: map[string]*models.User{
		"a@x.com": {Email: "a@x.com", Role: models.RoleUser, PasswordHash: "not-a-bcrypt-hash"},
	}}
	svc := newTestService(t, store, nil)

	_, err := svc.Login(context.Background(), "a@x.com", "anything", "")
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("Malformed stored hash must not masquerade as invalid credentials")
	}
	if !errors.Is(err, ErrBadStoredHash) {
		t.Errorf("Expected ErrBadStoredHash, got %v", err)
	}
}

func TestLoginStoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")
	svc := newTestService(t, &fakeUserStore{err: storeErr}, nil)

	_, err := svc.Login(context.Background(), "a@x.com", "x", "")
	if !errors.Is(err, storeErr) {
		t.Errorf("Expected store error to propagate, got %v", err)
	}
}
