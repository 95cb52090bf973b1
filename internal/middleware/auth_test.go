package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/portalteam/auth-api/internal/auth"
	"github.com/portalteam/auth-api/internal/models"
	"github.com/portalteam/auth-api/internal/request"
	"go.uber.org/zap"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newGate(t *testing.T) (func(http.Handler) http.Handler, *auth.TokenCodec) {
	t.Helper()
	codec, err := auth.NewTokenCodec(testSecret)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	return Auth(codec, zap.NewNop()), codec
}

func issueToken(t *testing.T, codec *auth.TokenCodec, claims auth.Claims) string {
	t.Helper()
	token, err := codec.Issue(claims)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	return token
}

func TestAuthAdmitsValidToken(t *testing.T) {
	t.Parallel()

	gate, codec := newGate(t)
	token := issueToken(t, codec, auth.NewClaims("a@x.com", models.RoleAdmin, "Ada", time.Hour))

	var gotIdentity *models.Identity
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = request.IdentityFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if gotIdentity == nil {
		t.Fatal("Expected identity in request context")
	}
	if gotIdentity.Subject != "a@x.com" {
		t.Errorf("Expected subject 'a@x.com', got %q", gotIdentity.Subject)
	}
	if gotIdentity.Role != models.RoleAdmin {
		t.Errorf("Expected role %q, got %q", models.RoleAdmin, gotIdentity.Role)
	}
}

func TestAuthRejectsBadRequests(t *testing.T) {
	t.Parallel()

	gate, codec := newGate(t)

	expired := issueToken(t, codec, auth.Claims{
		Subject:   "a@x.com",
		Role:      models.RoleUser,
		IssuedAt:  time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second),
		ExpiresAt: time.Now().UTC().Add(-time.Second).Truncate(time.Second),
	})
	valid := issueToken(t, codec, auth.NewClaims("a@x.com", models.RoleUser, "A", time.Hour))

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "bearer without token", header: "Bearer "},
		{name: "garbage token", header: "Bearer garbage"},
		{name: "expired token", header: "Bearer " + expired},
		{name: "tampered token", header: "Bearer " + valid[:len(valid)-2] + "xx"},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("Handler must not be reached for rejected requests")
			}))

			req := httptest.NewRequest("GET", "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Response is not JSON: %v", err)
			}
			if body["message"] != unauthorizedMessage {
				t.Errorf("Expected generic message %q, got %q", unauthorizedMessage, body["message"])
			}
			bodies = append(bodies, rec.Body.String())
		})
	}

	// Every rejection must look identical to the client.
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("Rejection bodies differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}
