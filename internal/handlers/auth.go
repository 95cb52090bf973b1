package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/portalteam/auth-api/internal/auth"
	"github.com/portalteam/auth-api/internal/logger"
	"github.com/portalteam/auth-api/internal/request"
	"github.com/portalteam/auth-api/internal/validation"
)

const (
	// invalidCredentialsMessage is the only text a failed login ever
	// returns. It never says whether the email or the password was wrong.
	invalidCredentialsMessage = "invalid credentials"

	unauthorizedMessage = "unauthorized"
)

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler handles login and identity requests
type AuthHandler struct {
	service *auth.Service
	users   auth.UserStore
	log     *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *auth.Service, users auth.UserStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, users: users, log: log}
}

// RegisterPublicRoutes registers routes that do not require a token.
// The router should already have the /auth prefix.
func (h *AuthHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.Login).Methods("POST")
}

// RegisterProtectedRoutes registers routes behind the token gate.
// The router should already have the /auth prefix.
func (h *AuthHandler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.Me).Methods("GET")
}

// Login exchanges email/password credentials for a signed bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.Validate.Struct(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password, request.ClientIP(r))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondMessage(w, http.StatusUnauthorized, invalidCredentialsMessage)
			return
		}
		// Lookup failures and malformed stored hashes are operational
		// faults, not a caller mistake. Log the kind, answer generically.
		h.log.Error("login_failed_internal",
			zap.Error(err),
			zap.String("email", logger.SanitizeEmail(req.Email)),
			zap.String("ip", request.ClientIP(r)),
		)
		respondMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Me returns the public projection of the caller identified by the bearer
// token. The user is re-read from the store so a deleted account stops
// resolving even while its token is still within its validity window.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := request.IdentityFromContext(r)
	if identity == nil {
		respondMessage(w, http.StatusUnauthorized, unauthorizedMessage)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), identity.Subject)
	if err != nil {
		h.log.Error("me_lookup_failed",
			zap.Error(err),
			zap.String("subject", logger.SanitizeEmail(identity.Subject)),
		)
		respondMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		respondMessage(w, http.StatusUnauthorized, unauthorizedMessage)
		return
	}

	respondJSON(w, http.StatusOK, user.Public())
}
