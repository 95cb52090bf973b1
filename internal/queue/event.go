package queue

import (
	"time"

	"github.com/google/uuid"
	"github.com/portalteam/auth-api/internal/auth"
)

// LoginEvent is the wire form of one login attempt published to the audit
// queue. It never carries the password or the stored hash.
type LoginEvent struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	RemoteIP string    `json:"remote_ip,omitempty"`
	Success  bool      `json:"success"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

// NewLoginEvent converts a service-level login attempt into a queue event.
func NewLoginEvent(attempt auth.LoginAttempt) *LoginEvent {
	at := attempt.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return &LoginEvent{
		ID:       uuid.New(),
		Email:    attempt.Email,
		RemoteIP: attempt.RemoteIP,
		Success:  attempt.Success,
		Reason:   attempt.Reason,
		At:       at,
	}
}
