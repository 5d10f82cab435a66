package services

import (
	"strings"
	"testing"

	"github.com/apelahishokr/tracker/internal/store"
	"github.com/apelahishokr/tracker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_SignUpAndLogin(t *testing.T) {
	f := newFixture(t)

	created, err := f.accounts.SignUp(f.ctx, "testuser", "password123", "testuser@example.com")
	require.NoError(t, err)
	assert.Equal(t, types.RoleUser, created.Role)
	assert.NotEqual(t, "password123", created.PasswordHash)

	data, err := f.storage.ReadAll(f.ctx, "accounts.csv")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password123")
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	account, err := f.accounts.Login(f.ctx, "testuser", "password123")
	require.NoError(t, err)
	assert.Equal(t, "testuser", account.Username)
	assert.Equal(t, "testuser@example.com", account.Email)
}

func TestAccountService_LoginFail(t *testing.T) {
	f := newFixture(t)
	_, err := f.accounts.SignUp(f.ctx, "testuser", "password123", "testuser@example.com")
	require.NoError(t, err)

	_, err = f.accounts.Login(f.ctx, "testuser", "wrongpassword")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.accounts.Login(f.ctx, "ghost", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	for _, entry := range f.logger.All() {
		for _, field := range entry.Context {
			assert.NotEqual(t, "password123", field.String)
			assert.NotEqual(t, "wrongpassword", field.String)
		}
	}
}

func TestAccountService_DuplicateSignUp(t *testing.T) {
	f := newFixture(t)
	_, err := f.accounts.SignUp(f.ctx, "testuser", "password123", "testuser@example.com")
	require.NoError(t, err)

	_, err = f.accounts.SignUp(f.ctx, "testuser", "password123", "testuser@example.com")
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAccountService_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.SignUp(f.ctx, "  ", "pw", "")
	require.ErrorIs(t, err, ErrMissingFields)
	_, err = f.accounts.SignUp(f.ctx, "u", "", "")
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestAccountService_CreateAdmin(t *testing.T) {
	f := newFixture(t)

	admin, err := f.accounts.CreateAdmin(f.ctx, "admin", "adminpass")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	_, err = f.accounts.CreateAdmin(f.ctx, "admin2", "adminpass")
	require.ErrorIs(t, err, ErrAdminExists)

	account, err := f.accounts.Login(f.ctx, "admin", "adminpass")
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, account.Role)

	exists, err := f.accounts.Exists(f.ctx, "admin")
	require.NoError(t, err)
	assert.True(t, exists)
}
