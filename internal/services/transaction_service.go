package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/xpense/xpense-server/internal/models"
	"github.com/xpense/xpense-server/internal/websocket"
)

// TransactionServiceProvider defines the interface for transaction services.
type TransactionServiceProvider interface {
	ListTransactions(userID string) ([]models.Transaction, error)
	CreateTransaction(userID string, txn models.Transaction) (models.Transaction, error)
	GetTransaction(userID, id string) (models.Transaction, error)
	UpdateTransaction(userID, id string, txn models.Transaction) (models.Transaction, error)
	DeleteTransaction(userID, id string) (models.Transaction, error)
}

// TransactionService provides business logic for transactions. Every
// operation authorizes through the owning account: a transaction
// belongs to the user who owns the account it references.
type TransactionService struct {
	db     *sql.DB
	events EventServiceProvider
	hub    *websocket.Hub
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(db *sql.DB, events EventServiceProvider, hub *websocket.Hub) *TransactionService {
	return &TransactionService{db: db, events: events, hub: hub}
}

const transactionColumns = "t.id, t.amount, t.description, t.date, t.latitude, t.longitude, t.account_id"

// ListTransactions returns all transactions on accounts owned by the
// user, newest first.
func (s *TransactionService) ListTransactions(userID string) ([]models.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = ?
		ORDER BY t.date DESC, t.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

// CreateTransaction creates a transaction on one of the user's
// accounts. A missing target account is ErrNotFound; someone else's
// account is ErrForbidden.
func (s *TransactionService) CreateTransaction(userID string, txn models.Transaction) (models.Transaction, error) {
	if err := s.authorizeAccount(userID, txn.AccountID); err != nil {
		return models.Transaction{}, err
	}

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	txn.Date = models.NewTimestamp(txn.Date.Time)

	latitude, longitude := coordinateColumns(txn.Location)
	_, err := s.db.Exec(`
		INSERT INTO transactions (id, amount, description, date, latitude, longitude, account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.Amount, txn.Description, txn.Date.Unix(), latitude, longitude, txn.AccountID)
	if err != nil {
		return models.Transaction{}, err
	}

	s.recordAndNotify(userID, "transaction.created", "transaction "+txn.Description+" created", txn)
	return txn, nil
}

// GetTransaction retrieves a single transaction after walking the
// ownership chain transaction -> account -> user.
func (s *TransactionService) GetTransaction(userID, id string) (models.Transaction, error) {
	txn, err := s.findTransaction(id)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := s.authorizeAccount(userID, txn.AccountID); err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

// UpdateTransaction replaces amount, description, date and location
// atomically; an absent location clears both coordinates together. The
// transaction may be rebound to another account, but only one the user
// also owns.
func (s *TransactionService) UpdateTransaction(userID, id string, txn models.Transaction) (models.Transaction, error) {
	current, err := s.GetTransaction(userID, id)
	if err != nil {
		return models.Transaction{}, err
	}

	if txn.AccountID == "" {
		txn.AccountID = current.AccountID
	} else if txn.AccountID != current.AccountID {
		if err := s.authorizeAccount(userID, txn.AccountID); err != nil {
			return models.Transaction{}, err
		}
	}

	txn.ID = id
	txn.Date = models.NewTimestamp(txn.Date.Time)

	latitude, longitude := coordinateColumns(txn.Location)
	_, err = s.db.Exec(`
		UPDATE transactions
		SET amount = ?, description = ?, date = ?, latitude = ?, longitude = ?, account_id = ?
		WHERE id = ?`,
		txn.Amount, txn.Description, txn.Date.Unix(), latitude, longitude, txn.AccountID, id)
	if err != nil {
		return models.Transaction{}, err
	}

	s.recordAndNotify(userID, "transaction.updated", "transaction "+txn.Description+" updated", txn)
	return txn, nil
}

// DeleteTransaction removes a transaction and returns the deleted
// representation.
func (s *TransactionService) DeleteTransaction(userID, id string) (models.Transaction, error) {
	txn, err := s.GetTransaction(userID, id)
	if err != nil {
		return models.Transaction{}, err
	}

	if _, err := s.db.Exec("DELETE FROM transactions WHERE id = ?", id); err != nil {
		return models.Transaction{}, err
	}

	s.recordAndNotify(userID, "transaction.deleted", "transaction "+txn.Description+" deleted", txn)
	return txn, nil
}

// authorizeAccount resolves an account id and checks the ownership
// chain. Existence is checked before ownership.
func (s *TransactionService) authorizeAccount(userID, accountID string) error {
	var account models.Account
	row := s.db.QueryRow("SELECT id, name, user_id FROM accounts WHERE id = ?", accountID)
	err := row.Scan(&account.ID, &account.Name, &account.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	return requireOwner(userID, account)
}

func (s *TransactionService) findTransaction(id string) (models.Transaction, error) {
	row := s.db.QueryRow("SELECT "+transactionColumns+" FROM transactions t WHERE t.id = ?", id)
	txn, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Transaction{}, ErrNotFound
		}
		return models.Transaction{}, err
	}
	return txn, nil
}

func (s *TransactionService) recordAndNotify(userID, eventType, message string, payload interface{}) {
	if s.events != nil {
		if err := s.events.CreateEvent(eventType, "info", message, &userID); err != nil {
			log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
		}
	}
	if s.hub != nil {
		s.hub.NotifyUser(userID, eventType, payload)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		txn       models.Transaction
		date      int64
		latitude  sql.NullFloat64
		longitude sql.NullFloat64
	)
	err := row.Scan(&txn.ID, &txn.Amount, &txn.Description, &date, &latitude, &longitude, &txn.AccountID)
	if err != nil {
		return models.Transaction{}, err
	}

	txn.Date = models.NewTimestamp(time.Unix(date, 0))
	if latitude.Valid && longitude.Valid {
		txn.Location = &models.Coordinate{Latitude: latitude.Float64, Longitude: longitude.Float64}
	}
	return txn, nil
}

// coordinateColumns splits an optional coordinate into nullable
// latitude/longitude columns. Both are set or both are NULL; a partial
// pair is never written.
func coordinateColumns(location *models.Coordinate) (latitude, longitude sql.NullFloat64) {
	if location == nil {
		return
	}
	latitude = sql.NullFloat64{Float64: location.Latitude, Valid: true}
	longitude = sql.NullFloat64{Float64: location.Longitude, Valid: true}
	return
}
