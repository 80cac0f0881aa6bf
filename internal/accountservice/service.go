// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-petr/wallet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, username, email, phoneNumber string) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	UpdateProfile(ctx context.Context, id int64, username, phoneNumber string) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Open creates an account with zero balance and returns it.
func (s *Service) Open(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	account, err := s.repo.Create(ctx, arg.Username, arg.Email, arg.PhoneNumber)
	if err != nil {
		return account, err
	}

	return account, nil
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return account, err
	}

	return account, nil
}

// UpdateProfile updates profile fields of the account.
func (s *Service) UpdateProfile(ctx context.Context, id int64, arg domain.UpdateProfileParams) (domain.Account, error) {
	account, err := s.repo.UpdateProfile(ctx, id, arg.Username, arg.PhoneNumber)
	if err != nil {
		return account, err
	}

	return account, nil
}
