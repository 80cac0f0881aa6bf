// Package walletservice manages business logic layer of wallet operations.
package walletservice

import (
	"context"
	"time"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/eventspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by wallet service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package walletservice
type Repo interface {
	Credit(ctx context.Context, arg domain.CreditParams) (domain.OperationResult, error)
	Debit(ctx context.Context, arg domain.DebitParams) (domain.OperationResult, error)
	Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferTxResult, error)
}

// EventPublisher publishes events about committed wallet operations.
type EventPublisher interface {
	Publish(topic string, event any) error
}

// Service facilitates wallet service layer logic.
type Service struct {
	repo      Repo
	publisher EventPublisher
}

// New returns wallet service struct to manage wallet business logic.
func New(wr Repo, p EventPublisher) *Service {
	return &Service{
		repo:      wr,
		publisher: p,
	}
}

// Credit validates the request and adds money to the account.
func (s *Service) Credit(ctx context.Context, arg domain.CreditParams) (domain.OperationResult, error) {
	if err := validAmount(arg.Amount); err != nil {
		return domain.OperationResult{}, err
	}

	result, err := s.repo.Credit(ctx, arg)
	if err != nil {
		return result, err
	}

	s.publish(ctx, result.Entry)

	return result, nil
}

// Debit validates the request and withdraws money from the account.
func (s *Service) Debit(ctx context.Context, arg domain.DebitParams) (domain.OperationResult, error) {
	if err := validAmount(arg.Amount); err != nil {
		return domain.OperationResult{}, err
	}

	result, err := s.repo.Debit(ctx, arg)
	if err != nil {
		return result, err
	}

	s.publish(ctx, result.Entry)

	return result, nil
}

// Transfer validates the request and moves money between two accounts.
func (s *Service) Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferTxResult, error) {
	if arg.FromAccountID == arg.ToAccountID {
		return domain.TransferTxResult{}, domain.ErrSelfTransfer
	}

	if err := validAmount(arg.Amount); err != nil {
		return domain.TransferTxResult{}, err
	}

	result, err := s.repo.Transfer(ctx, arg)
	if err != nil {
		return result, err
	}

	s.publish(ctx, result.FromEntry)
	s.publish(ctx, result.ToEntry)

	return result, nil
}

func validAmount(amount string) error {
	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.ErrNegativeAmount
	}

	return nil
}

// publish emits a transaction_completed event for the committed entry.
// Publishing is best effort; the wallet operation already committed.
func (s *Service) publish(ctx context.Context, entry domain.Entry) {
	l := zerolog.Ctx(ctx)

	event := eventspkg.TransactionCompleted{
		EntryID:               entry.ID,
		AccountID:             entry.AccountID,
		Kind:                  string(entry.Kind),
		Amount:                entry.Amount,
		CounterpartyAccountID: entry.CounterpartyAccountID,
		OccurredAt:            time.Now().UTC(),
	}

	if err := s.publisher.Publish(eventspkg.TopicTransactionCompleted, event); err != nil {
		l.Error().Err(err).Int64("entry_id", entry.ID).Msg("publish transaction event")
	}
}
