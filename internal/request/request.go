package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/portalteam/auth-api/internal/models"
)

type contextKey string

const identityContextKey contextKey = "identity"

// ClientIP extracts the client IP from the request, respecting
// X-Forwarded-For and X-Real-IP set by proxies.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the authenticated identity from the request
// context, or nil if the request was not authenticated.
func IdentityFromContext(r *http.Request) *models.Identity {
	id, _ := r.Context().Value(identityContextKey).(*models.Identity)
	return id
}
