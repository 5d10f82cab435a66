package store

import (
	"context"
	"testing"

	"github.com/apelahishokr/tracker/internal/storage"
	"github.com/apelahishokr/tracker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountRepo(t *testing.T) (*AccountRepository, *storage.Storage) {
	t.Helper()
	s := storage.NewStorage(storage.NewDiskClient(t.TempDir()))
	return NewAccountRepository(s, "accounts.csv"), s
}

func TestAccountRepository_MissingFile(t *testing.T) {
	repo, _ := newAccountRepo(t)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)

	_, err = repo.GetByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo, s := newAccountRepo(t)

	_, err := repo.Create(ctx, types.Account{Username: "testuser", PasswordHash: "h1", Email: "testuser@example.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, types.Account{Username: "boss", PasswordHash: "h2", Email: "boss@example.com", Role: types.RoleAdmin})
	require.NoError(t, err)

	data, err := s.ReadAll(ctx, "accounts.csv")
	require.NoError(t, err)
	assert.Equal(t, "Username,Password,Email,Role\ntestuser,h1,testuser@example.com,user\nboss,h2,boss@example.com,admin\n", string(data))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	got, err := repo.GetByUsername(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, types.RoleUser, got.Role)
	assert.Equal(t, "h1", got.PasswordHash)

	hasAdmin, err := repo.HasAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, hasAdmin)
}

func TestAccountRepository_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newAccountRepo(t)

	_, err := repo.Create(ctx, types.Account{Username: "testuser", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, types.Account{Username: "testuser", PasswordHash: "h"})
	require.ErrorIs(t, err, ErrAlreadyExists)

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestAccountRepository_NoAdmin(t *testing.T) {
	ctx := context.Background()
	repo, _ := newAccountRepo(t)

	_, err := repo.Create(ctx, types.Account{Username: "u", PasswordHash: "h"})
	require.NoError(t, err)

	hasAdmin, err := repo.HasAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, hasAdmin)
}
