package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/portalteam/auth-api/internal/auth"
	logpkg "github.com/portalteam/auth-api/internal/logger"
	"github.com/portalteam/auth-api/internal/models"
	"github.com/portalteam/auth-api/internal/request"
	"go.uber.org/zap"
)

// unauthorizedMessage is the single response body for every authentication
// failure. Clients never learn whether the token was missing, malformed,
// tampered with or expired.
const unauthorizedMessage = "unauthorized"

// Auth gates protected routes on a valid bearer token. On success the
// authenticated identity is attached to the request context; on any failure
// the request is rejected with a generic 401 before reaching the handler.
// The specific failure kind is logged for diagnostics only.
func Auth(codec *auth.TokenCodec, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				respondUnauthorized(w)
				return
			}

			claims, err := codec.Validate(parts[1])
			if err != nil {
				logger.Warn("token_rejected",
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("ip", request.ClientIP(r)),
					zap.Error(err),
				)
				respondUnauthorized(w)
				return
			}

			identity := &models.Identity{
				Subject: claims.Subject,
				Role:    claims.Role,
				Name:    claims.Name,
			}
			ctx := request.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": unauthorizedMessage}); err != nil {
		_ = err
	}
}
