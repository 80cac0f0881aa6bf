// Package helpers provides shared seed helpers for integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/go-petr/wallet-ledger/internal/accountrepo"
	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/internal/entryrepo"
	"github.com/go-petr/wallet-ledger/pkg/dbpkg"
	"github.com/go-petr/wallet-ledger/pkg/randompkg"
)

// SeedAccount creates an account with a random profile and zero balance
// inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface) domain.Account {
	t.Helper()

	accountRepo := accountrepo.NewRepoPGS(tx)

	account, err := accountRepo.Create(context.Background(),
		randompkg.Username(), randompkg.Email(), randompkg.PhoneNumber())
	if err != nil {
		t.Fatalf("accountRepo.Create returned error: %v", err)
	}

	return account
}

// SeedAccountWithBalance creates an account and credits it to the given
// balance inside a test transaction.
func SeedAccountWithBalance(t *testing.T, tx dbpkg.SQLInterface, balance string) domain.Account {
	t.Helper()

	account := SeedAccount(t, tx)

	accountRepo := accountrepo.NewRepoPGS(tx)

	account, err := accountRepo.AddBalance(context.Background(), balance, account.ID)
	if err != nil {
		t.Fatalf("accountRepo.AddBalance(ctx, %v, %v) returned error: %v", balance, account.ID, err)
	}

	SeedEntry(t, tx, domain.CreateEntryParams{
		AccountID: account.ID,
		Kind:      domain.EntryKindCredit,
		Amount:    balance,
	})

	return account
}

// SeedEntry creates an entry inside a test transaction.
func SeedEntry(t *testing.T, tx dbpkg.SQLInterface, arg domain.CreateEntryParams) domain.Entry {
	t.Helper()

	entryRepo := entryrepo.NewRepoPGS(tx)

	entry, err := entryRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("entryRepo.Create(ctx, %+v) returned error: %v", arg, err)
	}

	return entry
}

// SeedEntries creates credit entries with random amounts inside a test transaction.
func SeedEntries(t *testing.T, tx dbpkg.SQLInterface, count int, accountID int64) []domain.Entry {
	t.Helper()

	entries := make([]domain.Entry, count)

	for i := range entries {
		entries[i] = SeedEntry(t, tx, domain.CreateEntryParams{
			AccountID: accountID,
			Kind:      domain.EntryKindCredit,
			Amount:    randompkg.MoneyAmountBetween(1, 1000),
		})
	}

	return entries
}
