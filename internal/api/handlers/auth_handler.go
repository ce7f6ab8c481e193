package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/xpense/xpense-server/internal/services"
)

// AuthHandler handles HTTP requests for sign-up and login.
type AuthHandler struct {
	users  services.UserServiceProvider
	tokens services.TokenServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens services.TokenServiceProvider) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// RegisterPayload defines the structure for sign-up requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register handles new user sign-up. Only the name is echoed back; the
// password hash never leaves the server.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Name == "" || payload.Password == "" {
		http.Error(w, "Name and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.CreateUser(payload.Name, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("name", payload.Name).Msg("Failed to register user")
		writeServiceError(w, err, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": user.Name})
}

// Login authenticates HTTP Basic credentials and issues a fresh bearer
// token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	name, password, ok := r.BasicAuth()
	if !ok {
		http.Error(w, "Missing basic credentials", http.StatusUnauthorized)
		return
	}

	user, err := h.users.AuthenticateBasic(name, password)
	if err != nil {
		log.Warn().Str("name", name).Msg("Failed authentication attempt")
		writeServiceError(w, err, "Failed to authenticate")
		return
	}

	token, err := h.tokens.IssueToken(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		http.Error(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"name":  user.Name,
		"token": token.Value,
	})
}
