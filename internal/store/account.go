package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/apelahishokr/tracker/internal/storage"
	"github.com/apelahishokr/tracker/types"
)

var accountHeader = []string{"Username", "Password", "Email", "Role"}

// AccountRepository handles persistence for accounts in a CSV file,
// one row per account.
type AccountRepository struct {
	storage *storage.Storage
	key     string
}

func NewAccountRepository(s *storage.Storage, key string) *AccountRepository {
	return &AccountRepository{storage: s, key: key}
}

// List scans the whole file. A missing file holds no accounts.
func (r *AccountRepository) List(ctx context.Context) ([]types.Account, error) {
	data, err := r.storage.ReadAll(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var accounts []types.Account
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", r.key, err)
		}
		if first {
			first = false
			if len(record) > 0 && record[0] == accountHeader[0] {
				continue
			}
		}
		if len(record) < 2 {
			continue
		}
		account := types.Account{
			Username:     record[0],
			PasswordHash: record[1],
		}
		if len(record) > 2 {
			account.Email = record[2]
		}
		if len(record) > 3 {
			account.Role = types.ParseRole(record[3])
		} else {
			account.Role = types.RoleUser
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return types.Account{}, err
	}
	for _, account := range accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return types.Account{}, ErrNotFound
}

// Create appends a row for the account. The header is written when the
// file does not exist yet.
func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	if _, err := r.GetByUsername(ctx, account.Username); err == nil {
		return types.Account{}, fmt.Errorf("%w: account %s", ErrAlreadyExists, account.Username)
	} else if !errors.Is(err, ErrNotFound) {
		return types.Account{}, err
	}
	if account.Role == "" {
		account.Role = types.RoleUser
	}

	exists, err := r.storage.Exists(ctx, r.key)
	if err != nil {
		return types.Account{}, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if !exists {
		if err := w.Write(accountHeader); err != nil {
			return types.Account{}, err
		}
	}
	if err := w.Write([]string{account.Username, account.PasswordHash, account.Email, string(account.Role)}); err != nil {
		return types.Account{}, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return types.Account{}, err
	}

	if err := r.storage.Append(ctx, r.key, buf.Bytes()); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

// HasAdmin reports whether any stored account holds the admin role.
func (r *AccountRepository) HasAdmin(ctx context.Context) (bool, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for _, account := range accounts {
		if account.IsAdmin() {
			return true, nil
		}
	}
	return false, nil
}
