package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"

	"github.com/xpense/xpense-server/internal/models"
)

// TokenServiceProvider defines the interface for bearer token services.
type TokenServiceProvider interface {
	IssueToken(user models.User) (models.Token, error)
	Authenticate(value string) (models.User, error)
}

// TokenService issues and resolves persisted opaque bearer tokens.
// Tokens carry no expiry; a value stays valid until its row is
// deleted, and a user may hold any number of live tokens at once.
type TokenService struct {
	db *sql.DB
}

// NewTokenService creates a new TokenService.
func NewTokenService(db *sql.DB) *TokenService {
	return &TokenService{db: db}
}

// IssueToken persists and returns a fresh token bound to the user.
func (s *TokenService) IssueToken(user models.User) (models.Token, error) {
	value, err := newTokenValue()
	if err != nil {
		return models.Token{}, fmt.Errorf("failed to generate token value: %w", err)
	}

	token := models.Token{
		ID:     uuid.New().String(),
		Value:  value,
		UserID: user.ID,
	}

	_, err = s.db.Exec("INSERT INTO user_tokens (id, value, user_id) VALUES (?, ?, ?)",
		token.ID, token.Value, token.UserID)
	if err != nil {
		return models.Token{}, err
	}
	return token, nil
}

// Authenticate resolves a bearer token value to its user. Unknown
// values yield ErrUnauthorized.
func (s *TokenService) Authenticate(value string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(`
		SELECT u.id, u.username, u.created_at
		FROM user_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.value = ?`, value)
	err := row.Scan(&user.ID, &user.Name, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}
	return user, nil
}

// newTokenValue returns 16 bytes of cryptographic randomness, base64
// encoded, matching the token format the mobile client already knows.
func newTokenValue() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
