// Package entryservice manages business logic layer of ledger entries.
package entryservice

import (
	"context"

	"github.com/go-petr/wallet-ledger/internal/accountdelivery"
	"github.com/go-petr/wallet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by entry service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package entryservice
type Repo interface {
	Get(ctx context.Context, id int64) (domain.Entry, error)
	List(ctx context.Context, accountID int64, limit, offset int32) ([]domain.Entry, error)
	Count(ctx context.Context, accountID int64) (int64, error)
}

// Service facilitates entry service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
}

// New returns entry service struct to manage entry business logic.
func New(er Repo, as accountdelivery.Service) *Service {
	return &Service{
		repo:           er,
		accountService: as,
	}
}

// List returns one page of the account's entries (most recent first) and
// the total entry count.
func (s *Service) List(ctx context.Context, accountID int64, page, limit int32) ([]domain.Entry, int64, error) {
	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit

	entries, err := s.repo.List(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// Get returns the entry with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Entry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return entry, err
	}

	return entry, nil
}
