package middleware

import (
	"net/http"
)

const (
	// DefaultMaxRequestSize caps request bodies at 1MB. Login payloads are
	// tiny; anything larger is not a legitimate request.
	DefaultMaxRequestSize int64 = 1 << 20
)

// MaxRequestSize rejects oversized request bodies before handlers read them.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Content-Length lets us fail fast without reading anything.
			if r.ContentLength > maxBytes {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			defer r.Body.Close()

			next.ServeHTTP(w, r)
		})
	}
}
