package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpense/xpense-server/internal/models"
)

func TestListAccountsScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	svc := NewAccountService(db, nil, nil)

	wallet := createTestAccount(t, db, alice.ID, "Wallet")
	createTestAccount(t, db, bob.ID, "Savings")

	accounts, err := svc.ListAccounts(alice.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, wallet.ID, accounts[0].ID)
	assert.Equal(t, "Wallet", accounts[0].Name)
}

func TestCreateAccountKeepsClientSuppliedID(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	svc := NewAccountService(db, nil, nil)

	account, err := svc.CreateAccount(alice.ID, models.Account{ID: "client-id-1", Name: "Wallet"})
	require.NoError(t, err)
	assert.Equal(t, "client-id-1", account.ID)

	got, err := svc.GetAccount(alice.ID, "client-id-1")
	require.NoError(t, err)
	assert.Equal(t, "Wallet", got.Name)
}

func TestCreateAccountDuplicateIDConflicts(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	svc := NewAccountService(db, nil, nil)

	_, err := svc.CreateAccount(alice.ID, models.Account{ID: "client-id-1", Name: "Wallet"})
	require.NoError(t, err)

	_, err = svc.CreateAccount(alice.ID, models.Account{ID: "client-id-1", Name: "Savings"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetAccountNotFoundBeforeForbidden(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	svc := NewAccountService(db, nil, nil)

	wallet := createTestAccount(t, db, alice.ID, "Wallet")

	_, err := svc.GetAccount(bob.ID, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound, "a missing id is not-found even for non-owners")

	_, err = svc.GetAccount(bob.ID, wallet.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateAccountRenamesOnly(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	svc := NewAccountService(db, nil, nil)

	wallet := createTestAccount(t, db, alice.ID, "Wallet")

	updated, err := svc.UpdateAccount(alice.ID, wallet.ID, "Cash")
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, updated.ID)
	assert.Equal(t, "Cash", updated.Name)
	assert.Equal(t, alice.ID, updated.OwnerID(), "owner is immutable")

	_, err = svc.UpdateAccount(bob.ID, wallet.ID, "Stolen")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateAccountIdempotent(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	svc := NewAccountService(db, nil, nil)

	wallet := createTestAccount(t, db, alice.ID, "Wallet")

	first, err := svc.UpdateAccount(alice.ID, wallet.ID, "Cash")
	require.NoError(t, err)
	second, err := svc.UpdateAccount(alice.ID, wallet.ID, "Cash")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	got, err := svc.GetAccount(alice.ID, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestDeleteAccountCascadesToTransactions(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	accounts := NewAccountService(db, nil, nil)
	transactions := NewTransactionService(db, nil, nil)

	wallet := createTestAccount(t, db, alice.ID, "Wallet")
	keep := createTestAccount(t, db, alice.ID, "Savings")

	coffee, err := transactions.CreateTransaction(alice.ID, models.Transaction{
		Amount:      -500,
		Description: "Coffee",
		Date:        models.NewTimestamp(time.Now()),
		AccountID:   wallet.ID,
	})
	require.NoError(t, err)

	kept, err := transactions.CreateTransaction(alice.ID, models.Transaction{
		Amount:      1000,
		Description: "Deposit",
		Date:        models.NewTimestamp(time.Now()),
		AccountID:   keep.ID,
	})
	require.NoError(t, err)

	deleted, err := accounts.DeleteAccount(alice.ID, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, deleted.ID)

	_, err = accounts.GetAccount(alice.ID, wallet.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = transactions.GetTransaction(alice.ID, coffee.ID)
	assert.ErrorIs(t, err, ErrNotFound, "dependent transactions go with the account")

	got, err := transactions.GetTransaction(alice.ID, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, kept.ID, got.ID, "other accounts are untouched")
}

func TestDeleteAccountForbiddenForNonOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	svc := NewAccountService(db, nil, nil)

	wallet := createTestAccount(t, db, alice.ID, "Wallet")

	_, err := svc.DeleteAccount(bob.ID, wallet.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetAccount(alice.ID, wallet.ID)
	require.NoError(t, err, "account survives the forbidden attempt")
}
