package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/portalteam/auth-api/internal/auth"
	"github.com/portalteam/auth-api/internal/middleware"
	"github.com/portalteam/auth-api/internal/models"
)

var (
	testSecret  = []byte("0123456789abcdef0123456789abcdef")
	testUserID  = uuid.MustParse("7b0d1f6e-49a5-4f6b-9a64-6a4f5d8e2c01")
	errFakeStore = errors.New("store unavailable")
)

// fakeUserStore holds users keyed by email.
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

// newTestServer wires a router the way cmd/server does: public login route
// plus a token-gated /auth/me.
func newTestServer(t *testing.T, store auth.UserStore) http.Handler {
	t.Helper()

	codec, err := auth.NewTokenCodec(testSecret)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	verifier := auth.NewPasswordVerifier(bcrypt.MinCost)
	service := auth.NewService(store, verifier, codec, time.Hour, nil, zap.NewNop())
	handler := NewAuthHandler(service, store, zap.NewNop())

	router := mux.NewRouter()
	public := router.PathPrefix("/auth").Subrouter()
	handler.RegisterPublicRoutes(public)

	protected := router.PathPrefix("/auth").Subrouter()
	protected.Use(middleware.Auth(codec, zap.NewNop()))
	handler.RegisterProtectedRoutes(protected)

	return router
}

func testUser(t *testing.T, email, password string) *models.User {
	t.Helper()

	hash, err := auth.NewPasswordVerifier(bcrypt.MinCost).Hash(password)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	return &models.User{
		ID:           testUserID,
		Email:        email,
		Name:         "Test User",
		Role:         models.RoleUser,
		PasswordHash: hash,
	}
}

func doLogin(t *testing.T, server http.Handler, email, password string) *http.Response {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w.Result()
}

func TestLoginThenMe(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{users: map[string]*models.User{
		"a@x.com": testUser(t, "a@x.com", "correct"),
	}}
	server := newTestServer(t, store)

	resp := doLogin(t, server, "a@x.com", "correct")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var loginBody struct {
		Token string            `json:"token"`
		User  models.PublicUser `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginBody); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	if loginBody.Token == "" {
		t.Fatal("Expected a token in the login response")
	}
	if loginBody.User.Email != "a@x.com" {
		t.Errorf("Expected user email 'a@x.com', got '%s'", loginBody.User.Email)
	}
	if loginBody.User.Role != models.RoleUser {
		t.Errorf("Expected user role '%s', got '%s'", models.RoleUser, loginBody.User.Role)
	}

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginBody.Token)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	meResp := w.Result()
	defer meResp.Body.Close()

	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 from /auth/me, got %d", meResp.StatusCode)
	}

	var me models.PublicUser
	if err := json.NewDecoder(meResp.Body).Decode(&me); err != nil {
		t.Fatalf("Failed to decode /auth/me response: %v", err)
	}
	if me.Email != "a@x.com" {
		t.Errorf("Expected email 'a@x.com', got '%s'", me.Email)
	}
	if me.ID != testUserID {
		t.Errorf("Expected id %s, got %s", testUserID, me.ID)
	}
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{users: map[string]*models.User{
		"a@x.com": testUser(t, "a@x.com", "correct"),
	}}
	server := newTestServer(t, store)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "a@x.com", password: "wrong"},
		{name: "unknown email", email: "nobody@x.com", password: "correct"},
	}

	var bodies []string
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := doLogin(t, server, tt.email, tt.password)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("Expected status 401, got %d", resp.StatusCode)
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			msg := body["message"]
			if msg == "" {
				t.Fatal("Expected a message in the 401 body")
			}
			bodies = append(bodies, msg)
		})
	}

	// Both failure modes must produce the same message or the response
	// becomes an account enumeration oracle.
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("Failure messages differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeUserStore{users: map[string]*models.User{}})

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "not json"},
		{name: "missing password", body: `{"email":"a@x.com"}`},
		{name: "missing email", body: `{"password":"secret"}`},
		{name: "invalid email", body: `{"email":"not-an-email","password":"secret"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestLoginStoreErrorIsNotUnauthorized(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeUserStore{err: errFakeStore})

	resp := doLogin(t, server, "a@x.com", "correct")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", resp.StatusCode)
	}
}

func TestMeRejectsBadTokens(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{users: map[string]*models.User{
		"a@x.com": testUser(t, "a@x.com", "correct"),
	}}
	server := newTestServer(t, store)

	codec, err := auth.NewTokenCodec(testSecret)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	expired, err := codec.Issue(auth.Claims{
		Subject:   "a@x.com",
		Role:      models.RoleUser,
		Name:      "Test User",
		IssuedAt:  now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Second),
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "garbage token", header: "Bearer garbage"},
		{name: "expired token", header: "Bearer " + expired},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestMeDeletedUser(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{users: map[string]*models.User{
		"a@x.com": testUser(t, "a@x.com", "correct"),
	}}
	server := newTestServer(t, store)

	resp := doLogin(t, server, "a@x.com", "correct")
	defer resp.Body.Close()

	var loginBody struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginBody); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}

	// Remove the account. The token is still signed and unexpired but the
	// subject no longer resolves.
	delete(store.users, "a@x.com")

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginBody.Token)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	meResp := w.Result()
	defer meResp.Body.Close()

	if meResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", meResp.StatusCode)
	}
}
