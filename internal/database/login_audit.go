package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LoginAuditRecord is one persisted login attempt. Reason stays generic
// ("unknown email", "password mismatch"); no credential material is stored.
type LoginAuditRecord struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	RemoteIP  string    `json:"remote_ip"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginAuditRepository persists the login audit trail written by the worker.
type LoginAuditRepository struct {
	db *DB
}

// NewLoginAuditRepository creates a new login audit repository.
func NewLoginAuditRepository(db *DB) *LoginAuditRepository {
	return &LoginAuditRepository{db: db}
}

// Insert stores one login attempt.
func (r *LoginAuditRepository) Insert(ctx context.Context, rec *LoginAuditRecord) error {
	query := `
		INSERT INTO login_audit (id, email, remote_ip, success, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Email,
		rec.RemoteIP,
		rec.Success,
		rec.Reason,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert login audit record: %w", err)
	}

	return nil
}

// RecentFailures counts failed attempts for an email within the window,
// for operational inspection via the configure CLI.
func (r *LoginAuditRepository) RecentFailures(ctx context.Context, email string, window time.Duration) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM login_audit
		WHERE email = $1 AND success = false AND created_at > $2
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, email, time.Now().Add(-window)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent failures: %w", err)
	}

	return count, nil
}
