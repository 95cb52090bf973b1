package auth

import (
	"context"
	"fmt"
	"time"

	logpkg "github.com/portalteam/auth-api/internal/logger"
	"github.com/portalteam/auth-api/internal/models"
	"go.uber.org/zap"
)

// UserStore is the read-only user lookup the service depends on. FindByEmail
// returns (nil, nil) when no record exists; errors are reserved for lookup
// failures (connectivity, timeouts).
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// LoginAttempt describes one login attempt for the audit trail. It never
// carries the password or the stored hash.
type LoginAttempt struct {
	Email    string
	RemoteIP string
	Success  bool
	Reason   string
	At       time.Time
}

// AuditSink receives login attempts. Implementations must not block the
// login path for long; failures are logged and ignored.
type AuditSink interface {
	RecordLoginAttempt(ctx context.Context, attempt LoginAttempt) error
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// dummyHash is compared against when the email is unknown, so an attacker
// cannot tell "no such user" from "wrong password" by response timing.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service authenticates credentials and issues tokens. It is stateless
// across requests; the only long-lived state is the codec's signing secret.
type Service struct {
	store    UserStore
	verifier *PasswordVerifier
	codec    *TokenCodec
	tokenTTL time.Duration
	audit    AuditSink
	log      *zap.Logger
}

// NewService creates an authentication service. audit may be nil when no
// audit pipeline is configured.
func NewService(store UserStore, verifier *PasswordVerifier, codec *TokenCodec, tokenTTL time.Duration, audit AuditSink, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		verifier: verifier,
		codec:    codec,
		tokenTTL: tokenTTL,
		audit:    audit,
		log:      log,
	}
}

// Login exchanges verified credentials for a signed token and a public user
// projection. An unknown email and a wrong password both return
// ErrInvalidCredentials. The user lookup may block on I/O; callers should
// pass a request-scoped context.
func (s *Service) Login(ctx context.Context, email, password, remoteIP string) (*LoginResult, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user == nil {
		// Burn a hash comparison anyway to keep timing uniform.
		_, _ = s.verifier.Verify(password, dummyHash)
		s.recordAttempt(ctx, email, remoteIP, false, "unknown email")
		return nil, ErrInvalidCredentials
	}

	ok, err := s.verifier.Verify(password, user.PasswordHash)
	if err != nil {
		// Malformed stored hash is an operational fault, not a user error.
		s.log.Error("stored_password_hash_invalid",
			zap.String("email", logpkg.SanitizeEmail(email)),
			zap.Error(err),
		)
		return nil, err
	}
	if !ok {
		s.recordAttempt(ctx, email, remoteIP, false, "password mismatch")
		return nil, ErrInvalidCredentials
	}

	claims := NewClaims(user.Email, user.Role, user.Name, s.tokenTTL)
	token, err := s.codec.Issue(claims)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.recordAttempt(ctx, email, remoteIP, true, "")

	return &LoginResult{
		Token: token,
		User:  user.Public(),
	}, nil
}

func (s *Service) recordAttempt(ctx context.Context, email, remoteIP string, success bool, reason string) {
	if s.audit == nil {
		return
	}
	attempt := LoginAttempt{
		Email:    email,
		RemoteIP: remoteIP,
		Success:  success,
		Reason:   reason,
		At:       time.Now().UTC(),
	}
	if err := s.audit.RecordLoginAttempt(ctx, attempt); err != nil {
		s.log.Warn("failed_to_record_login_attempt",
			zap.String("email", logpkg.SanitizeEmail(email)),
			zap.Bool("success", success),
			zap.Error(err),
		)
	}
}
