package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpense/xpense-server/internal/models"
)

func newTransaction(accountID string, amount int64, description string) models.Transaction {
	return models.Transaction{
		Amount:      amount,
		Description: description,
		Date:        models.NewTimestamp(time.Unix(1700000000, 0)),
		AccountID:   accountID,
	}
}

func TestCreateTransactionOnOwnAccount(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	wallet := createTestAccount(t, db, alice.ID, "Wallet")
	svc := NewTransactionService(db, NewEventService(db), nil)

	created, err := svc.CreateTransaction(alice.ID, newTransaction(wallet.ID, -500, "Coffee"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(-500), created.Amount)

	got, err := svc.GetTransaction(alice.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateTransactionOnForeignAccountForbidden(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	wallet := createTestAccount(t, db, alice.ID, "Wallet")
	svc := NewTransactionService(db, nil, nil)

	_, err := svc.CreateTransaction(bob.ID, newTransaction(wallet.ID, -500, "Coffee"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateTransactionOnMissingAccountNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	svc := NewTransactionService(db, nil, nil)

	_, err := svc.CreateTransaction(alice.ID, newTransaction("missing-account", -500, "Coffee"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocationRoundTrip(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	wallet := createTestAccount(t, db, alice.ID, "Wallet")
	svc := NewTransactionService(db, nil, nil)

	withLocation := newTransaction(wallet.ID, -500, "Coffee")
	withLocation.Location = &models.Coordinate{Latitude: 48.2656, Longitude: 11.6716}

	created, err := svc.CreateTransaction(alice.ID, withLocation)
	require.NoError(t, err)

	got, err := svc.GetTransaction(alice.ID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Location)
	assert.Equal(t, 48.2656, got.Location.Latitude)
	assert.Equal(t, 11.6716, got.Location.Longitude)

	bare, err := svc.CreateTransaction(alice.ID, newTransaction(wallet.ID, -300, "Tea"))
	require.NoError(t, err)
	got, err = svc.GetTransaction(alice.ID, bare.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Location, "no location means no pair, never a partial one")
}

func TestUpdateClearsLocationAtomically(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	wallet := createTestAccount(t, db, alice.ID, "Wallet")
	svc := NewTransactionService(db, nil, nil)

	txn := newTransaction(wallet.ID, -500, "Coffee")
	txn.Location = &models.Coordinate{Latitude: 48.2656, Longitude: 11.6716}
	created, err := svc.CreateTransaction(alice.ID, txn)
	require.NoError(t, err)

	replacement := newTransaction(wallet.ID, -750, "Coffee and cake")
	updated, err := svc.UpdateTransaction(alice.ID, created.ID, replacement)
	require.NoError(t, err)
	assert.Nil(t, updated.Location)

	got, err := svc.GetTransaction(alice.ID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Location)
	assert.Equal(t, int64(-750), got.Amount)
	assert.Equal(t, "Coffee and cake", got.Description)

	var latitude, longitude interface{}
	require.NoError(t, db.QueryRow("SELECT latitude, longitude FROM transactions WHERE id = ?", created.ID).
		Scan(&latitude, &longitude))
	assert.Nil(t, latitude)
	assert.Nil(t, longitude)
}

func TestListTransactionsWalksOwnershipChain(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	aliceWallet := createTestAccount(t, db, alice.ID, "Wallet")
	bobWallet := createTestAccount(t, db, bob.ID, "Wallet")
	svc := NewTransactionService(db, nil, nil)

	mine, err := svc.CreateTransaction(alice.ID, newTransaction(aliceWallet.ID, -500, "Coffee"))
	require.NoError(t, err)
	_, err = svc.CreateTransaction(bob.ID, newTransaction(bobWallet.ID, -900, "Lunch"))
	require.NoError(t, err)

	transactions, err := svc.ListTransactions(alice.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, mine.ID, transactions[0].ID)
}

func TestGetTransactionNotFoundBeforeForbidden(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	wallet := createTestAccount(t, db, alice.ID, "Wallet")
	svc := NewTransactionService(db, nil, nil)

	created, err := svc.CreateTransaction(alice.ID, newTransaction(wallet.ID, -500, "Coffee"))
	require.NoError(t, err)

	_, err = svc.GetTransaction(bob.ID, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetTransaction(bob.ID, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateRebindRequiresOwnershipOfTarget(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	aliceWallet := createTestAccount(t, db, alice.ID, "Wallet")
	aliceSavings := createTestAccount(t, db, alice.ID, "Savings")
	bobWallet := createTestAccount(t, db, bob.ID, "Wallet")
	svc := NewTransactionService(db, nil, nil)

	created, err := svc.CreateTransaction(alice.ID, newTransaction(aliceWallet.ID, -500, "Coffee"))
	require.NoError(t, err)

	// Moving to another of alice's accounts is fine.
	updated, err := svc.UpdateTransaction(alice.ID, created.ID, newTransaction(aliceSavings.ID, -500, "Coffee"))
	require.NoError(t, err)
	assert.Equal(t, aliceSavings.ID, updated.AccountID)

	// Moving onto bob's account is not.
	_, err = svc.UpdateTransaction(alice.ID, created.ID, newTransaction(bobWallet.ID, -500, "Coffee"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteTransactionReturnsDeletedRepresentation(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	wallet := createTestAccount(t, db, alice.ID, "Wallet")
	svc := NewTransactionService(db, nil, nil)

	created, err := svc.CreateTransaction(alice.ID, newTransaction(wallet.ID, -500, "Coffee"))
	require.NoError(t, err)

	deleted, err := svc.DeleteTransaction(alice.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "Coffee", deleted.Description)

	_, err = svc.GetTransaction(alice.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
