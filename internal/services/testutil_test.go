package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xpense/xpense-server/internal/database"
	"github.com/xpense/xpense-server/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "xpense-test.db"))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db), "failed to migrate test database")
	return db
}

func createTestUser(t *testing.T, db *sql.DB, name string) models.User {
	t.Helper()
	user, err := NewUserService(db, nil).CreateUser(name, "password1")
	require.NoError(t, err)
	return user
}

func createTestAccount(t *testing.T, db *sql.DB, userID, name string) models.Account {
	t.Helper()
	account, err := NewAccountService(db, nil, nil).CreateAccount(userID, models.Account{Name: name})
	require.NoError(t, err)
	return account
}
