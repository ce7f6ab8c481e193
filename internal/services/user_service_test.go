package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserThenAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewEventService(db))

	created, err := svc.CreateUser("alice", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.Name)
	assert.Empty(t, created.PasswordHash, "hash must not leave the service")

	user, err := svc.AuthenticateBasic("alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestCreateUserStoresHashNotPlaintext(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	_, err := svc.CreateUser("alice", "password1")
	require.NoError(t, err)

	var stored string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE username = ?", "alice").Scan(&stored))
	assert.NotEqual(t, "password1", stored)
	assert.NotEmpty(t, stored)
}

func TestCreateUserDuplicateNameConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	_, err := svc.CreateUser("alice", "password1")
	require.NoError(t, err)

	_, err = svc.CreateUser("alice", "different")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	_, err := svc.AuthenticateBasic("nobody", "password1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	_, err := svc.CreateUser("alice", "password1")
	require.NoError(t, err)

	_, err = svc.AuthenticateBasic("alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
