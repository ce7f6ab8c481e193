package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/xpense/xpense-server/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(name, password string) (models.User, error)
	AuthenticateBasic(name, password string) (models.User, error)
}

// UserService provides business logic for user sign-up and password
// verification.
type UserService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, events EventServiceProvider) *UserService {
	return &UserService{db: db, events: events}
}

// CreateUser creates a new user, hashing their password with bcrypt.
// The plaintext password is never stored. A taken username yields
// ErrConflict.
func (s *UserService) CreateUser(name, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		PasswordHash: string(hashedPassword),
	}

	_, err = s.db.Exec("INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)",
		user.ID, user.Name, user.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, ErrConflict
		}
		return models.User{}, err
	}

	if s.events != nil {
		if err := s.events.CreateEvent("user.created", "info", "user "+user.Name+" signed up", &user.ID); err != nil {
			log.Error().Err(err).Str("type", "user.created").Msg("Failed to record event")
		}
	}

	user.PasswordHash = ""
	return user, nil
}

// AuthenticateBasic verifies a username/password pair. Unknown users
// and wrong passwords are indistinguishable to the caller; both yield
// ErrUnauthorized.
func (s *UserService) AuthenticateBasic(name, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, created_at FROM users WHERE username = ?", name)
	err := row.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrUnauthorized
	}

	user.PasswordHash = ""
	return user, nil
}
