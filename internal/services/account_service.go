package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/xpense/xpense-server/internal/models"
	"github.com/xpense/xpense-server/internal/websocket"
)

// AccountServiceProvider defines the interface for account services.
type AccountServiceProvider interface {
	ListAccounts(userID string) ([]models.Account, error)
	CreateAccount(userID string, account models.Account) (models.Account, error)
	GetAccount(userID, id string) (models.Account, error)
	UpdateAccount(userID, id, name string) (models.Account, error)
	DeleteAccount(userID, id string) (models.Account, error)
}

// AccountService provides business logic for accounts, including the
// ownership checks and the cascading delete of dependent transactions.
type AccountService struct {
	db     *sql.DB
	events EventServiceProvider
	hub    *websocket.Hub
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *sql.DB, events EventServiceProvider, hub *websocket.Hub) *AccountService {
	return &AccountService{db: db, events: events, hub: hub}
}

// ListAccounts returns the accounts owned by the user.
func (s *AccountService) ListAccounts(userID string) ([]models.Account, error) {
	rows, err := s.db.Query("SELECT id, name, user_id FROM accounts WHERE user_id = ? ORDER BY name, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.ID, &account.Name, &account.UserID); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// CreateAccount binds a new account to the user. The client may supply
// its own id (the mobile app generates UUIDs locally); one is assigned
// when absent. A taken id yields ErrConflict.
func (s *AccountService) CreateAccount(userID string, account models.Account) (models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.UserID = userID

	_, err := s.db.Exec("INSERT INTO accounts (id, name, user_id) VALUES (?, ?, ?)",
		account.ID, account.Name, account.UserID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.Account{}, ErrConflict
		}
		return models.Account{}, err
	}

	s.recordAndNotify(userID, "account.created", "account "+account.Name+" created", account)
	return account, nil
}

// GetAccount retrieves a single account. Existence is checked before
// ownership, so a missing id is ErrNotFound while someone else's id is
// ErrForbidden.
func (s *AccountService) GetAccount(userID, id string) (models.Account, error) {
	account, err := s.findAccount(id)
	if err != nil {
		return models.Account{}, err
	}
	if err := requireOwner(userID, account); err != nil {
		return models.Account{}, err
	}
	return account, nil
}

// UpdateAccount renames an account. Id and owner are immutable.
func (s *AccountService) UpdateAccount(userID, id, name string) (models.Account, error) {
	account, err := s.GetAccount(userID, id)
	if err != nil {
		return models.Account{}, err
	}

	if _, err := s.db.Exec("UPDATE accounts SET name = ? WHERE id = ?", name, id); err != nil {
		return models.Account{}, err
	}
	account.Name = name

	s.recordAndNotify(userID, "account.updated", "account "+account.Name+" updated", account)
	return account, nil
}

// DeleteAccount removes an account and all transactions referencing it
// in a single database transaction, so no orphaned transaction is ever
// observable. The deleted representation is returned.
func (s *AccountService) DeleteAccount(userID, id string) (models.Account, error) {
	account, err := s.GetAccount(userID, id)
	if err != nil {
		return models.Account{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Account{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM transactions WHERE account_id = ?", id); err != nil {
		return models.Account{}, fmt.Errorf("failed to delete dependent transactions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM accounts WHERE id = ?", id); err != nil {
		return models.Account{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Account{}, err
	}

	s.recordAndNotify(userID, "account.deleted", "account "+account.Name+" deleted", account)
	return account, nil
}

func (s *AccountService) findAccount(id string) (models.Account, error) {
	var account models.Account
	row := s.db.QueryRow("SELECT id, name, user_id FROM accounts WHERE id = ?", id)
	err := row.Scan(&account.ID, &account.Name, &account.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, err
	}
	return account, nil
}

func (s *AccountService) recordAndNotify(userID, eventType, message string, payload interface{}) {
	if s.events != nil {
		if err := s.events.CreateEvent(eventType, "info", message, &userID); err != nil {
			log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
		}
	}
	if s.hub != nil {
		s.hub.NotifyUser(userID, eventType, payload)
	}
}
