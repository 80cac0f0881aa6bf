// Package walletrepo executes wallet operations as single database transactions.
package walletrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/wallet-ledger/internal/accountrepo"
	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/internal/entryrepo"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS composes account and entry repositories inside one transaction
// per wallet operation.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns wallet RepoPGS with a connection to start transactions.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{conn: conn}
}

// Credit adds money to the account and records a CREDIT entry.
//
// The balance change and the entry commit together or not at all.
func (r *RepoPGS) Credit(ctx context.Context, arg domain.CreditParams) (domain.OperationResult, error) {
	var result domain.OperationResult

	err := r.withTx(ctx, func(accountRepo *accountrepo.RepoPGS, entryRepo *entryrepo.RepoPGS) error {
		var err error

		result.Account, err = accountRepo.AddBalance(ctx, arg.Amount, arg.AccountID)
		if err != nil {
			return err
		}

		result.Entry, err = entryRepo.Create(ctx, domain.CreateEntryParams{
			AccountID:   arg.AccountID,
			Kind:        domain.EntryKindCredit,
			Amount:      arg.Amount,
			Description: arg.Description,
		})

		return err
	})
	if err != nil {
		return domain.OperationResult{}, err
	}

	return result, nil
}

// Debit withdraws money from the account and records a DEBIT entry.
func (r *RepoPGS) Debit(ctx context.Context, arg domain.DebitParams) (domain.OperationResult, error) {
	var result domain.OperationResult

	err := r.withTx(ctx, func(accountRepo *accountrepo.RepoPGS, entryRepo *entryrepo.RepoPGS) error {
		var err error

		result.Account, err = accountRepo.AddBalance(ctx, "-"+arg.Amount, arg.AccountID)
		if err != nil {
			return err
		}

		result.Entry, err = entryRepo.Create(ctx, domain.CreateEntryParams{
			AccountID:   arg.AccountID,
			Kind:        domain.EntryKindDebit,
			Amount:      arg.Amount,
			Description: arg.Description,
		})

		return err
	})
	if err != nil {
		return domain.OperationResult{}, err
	}

	return result, nil
}

// Transfer moves money between two accounts.
//
// It debits the sender, credits the recipient and records the two
// cross-linked entries within a single database transaction. Any failure
// rolls back both legs.
func (r *RepoPGS) Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferTxResult, error) {
	var result domain.TransferTxResult

	err := r.withTx(ctx, func(accountRepo *accountrepo.RepoPGS, entryRepo *entryrepo.RepoPGS) error {
		var err error

		// To avoid deadlocks lock account rows in consistent id order.
		if arg.FromAccountID < arg.ToAccountID {
			result.FromAccount, result.ToAccount, err = addBalances(ctx, accountRepo, addBalanceParams{
				account1ID: arg.FromAccountID,
				amount1:    "-" + arg.Amount,
				account2ID: arg.ToAccountID,
				amount2:    arg.Amount,
			})
		} else {
			result.ToAccount, result.FromAccount, err = addBalances(ctx, accountRepo, addBalanceParams{
				account1ID: arg.ToAccountID,
				amount1:    arg.Amount,
				account2ID: arg.FromAccountID,
				amount2:    "-" + arg.Amount,
			})
		}

		if err != nil {
			return err
		}

		result.FromEntry, err = entryRepo.Create(ctx, domain.CreateEntryParams{
			AccountID:             arg.FromAccountID,
			Kind:                  domain.EntryKindTransferOut,
			Amount:                arg.Amount,
			CounterpartyAccountID: &arg.ToAccountID,
			Description:           arg.Description,
		})
		if err != nil {
			return err
		}

		result.ToEntry, err = entryRepo.Create(ctx, domain.CreateEntryParams{
			AccountID:             arg.ToAccountID,
			Kind:                  domain.EntryKindTransferIn,
			Amount:                arg.Amount,
			CounterpartyAccountID: &arg.FromAccountID,
			Description:           arg.Description,
		})
		if err != nil {
			return err
		}

		// Cross-link the two legs before commit so the pairing invariant
		// holds for every committed transfer.
		if err := entryRepo.SetPaired(ctx, result.FromEntry.ID, result.ToEntry.ID); err != nil {
			return err
		}

		if err := entryRepo.SetPaired(ctx, result.ToEntry.ID, result.FromEntry.ID); err != nil {
			return err
		}

		result.FromEntry.PairedEntryID = &result.ToEntry.ID
		result.ToEntry.PairedEntryID = &result.FromEntry.ID

		return nil
	})
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	return result, nil
}

// withTx runs fn inside a database transaction with repositories bound to
// it. The transaction is rolled back on every exit path unless fn
// succeeded and the commit went through.
func (r *RepoPGS) withTx(ctx context.Context, fn func(*accountrepo.RepoPGS, *entryrepo.RepoPGS) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	if err := fn(accountrepo.NewRepoPGS(tx), entryrepo.NewRepoPGS(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

type addBalanceParams struct {
	account1ID int64
	amount1    string
	account2ID int64
	amount2    string
}

func addBalances(ctx context.Context, r *accountrepo.RepoPGS, arg addBalanceParams) (domain.Account, domain.Account, error) {
	account1, err := r.AddBalance(ctx, arg.amount1, arg.account1ID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	account2, err := r.AddBalance(ctx, arg.amount2, arg.account2ID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	return account1, account2, nil
}
