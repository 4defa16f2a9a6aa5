// Package services contains server-side business logic: the account
// service owning the credential store, and the auth service composing it
// with the token manager into register/login/refresh flows.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avoronkov/authcore/internal/common"
	"github.com/avoronkov/authcore/internal/server/models"
	"github.com/avoronkov/authcore/internal/server/repositories/accounts"
)

// AccountService owns account records: registration, credential checks,
// and lookups. Every identity passed in is normalized before it touches
// the repository.
type AccountService struct {
	repo   accounts.Repository
	hasher PasswordHasher
}

func NewAccountService(repo accounts.Repository, hasher PasswordHasher) *AccountService {
	return &AccountService{repo: repo, hasher: hasher}
}

// Register creates a new account. A duplicate normalized email yields
// common.ErrAlreadyExists.
func (s *AccountService) Register(ctx context.Context, email, password, displayName string) (*models.Account, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		Email:        models.NormalizeEmail(email),
		PasswordHash: hash,
		DisplayName:  displayName,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return created, nil
}

// Authenticate verifies the password for the given identity. An unknown
// email and a wrong password are indistinguishable to the caller: both
// yield common.ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.repo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return account, nil
}

// FindByEmail looks up an account by identity. Absent accounts yield
// common.ErrNotFound.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.repo.GetByEmail(ctx, models.NormalizeEmail(email))
}
