package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apelahishokr/tracker/internal/logging"
	"github.com/apelahishokr/tracker/internal/store"
	"github.com/apelahishokr/tracker/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	List(ctx context.Context) ([]types.Account, error)
	GetByUsername(ctx context.Context, username string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	HasAdmin(ctx context.Context) (bool, error)
}

// AccountService encapsulates sign-up, sign-in and admin bootstrap.
type AccountService struct {
	repo   AccountRepository
	logger *logging.Logger
	cost   int
}

func NewAccountService(repo AccountRepository, logger *logging.Logger) *AccountService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AccountService{repo: repo, logger: logger, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AccountService) WithHashCost(cost int) *AccountService {
	s.cost = cost
	return s
}

// SignUp creates a regular account. Duplicate usernames fail with
// store.ErrAlreadyExists.
func (s *AccountService) SignUp(ctx context.Context, username, password, email string) (types.Account, error) {
	return s.create(ctx, username, password, strings.TrimSpace(email), types.RoleUser)
}

// CreateAdmin creates the single admin account. It fails with ErrAdminExists
// once any admin is stored.
func (s *AccountService) CreateAdmin(ctx context.Context, username, password string) (types.Account, error) {
	exists, err := s.repo.HasAdmin(ctx)
	if err != nil {
		return types.Account{}, err
	}
	if exists {
		s.logger.Warn(ctx, "admin already exists")
		return types.Account{}, ErrAdminExists
	}
	return s.create(ctx, username, password, "", types.RoleAdmin)
}

func (s *AccountService) create(ctx context.Context, username, password, email string, role types.Role) (types.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return types.Account{}, ErrMissingFields
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return types.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.repo.Create(ctx, types.Account{
		Username:     username,
		PasswordHash: string(hashed),
		Email:        email,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			s.logger.Warn(ctx, "account already exists", zap.String("username", username))
		}
		return types.Account{}, err
	}

	s.logger.Info(ctx, "account created", zap.String("username", username), zap.String("role", string(role)))
	return account, nil
}

// Login verifies credentials against the stored hash.
func (s *AccountService) Login(ctx context.Context, username, password string) (types.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return types.Account{}, ErrInvalidCredentials
	}

	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn(ctx, "login failed", zap.String("username", username))
			return types.Account{}, ErrInvalidCredentials
		}
		return types.Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn(ctx, "login failed", zap.String("username", username))
		return types.Account{}, ErrInvalidCredentials
	}

	s.logger.Info(ctx, "login succeeded", zap.String("username", username))
	return account, nil
}

// Exists reports whether username has an account.
func (s *AccountService) Exists(ctx context.Context, username string) (bool, error) {
	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, err
}
