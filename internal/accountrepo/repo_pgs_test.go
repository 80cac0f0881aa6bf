//go:build integration

package accountrepo_test

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/go-petr/wallet-ledger/internal/accountrepo"
	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/internal/integrationtest"
	"github.com/go-petr/wallet-ledger/internal/integrationtest/helpers"
	"github.com/go-petr/wallet-ledger/internal/middleware"
	"github.com/go-petr/wallet-ledger/pkg/configpkg"
	"github.com/go-petr/wallet-ledger/pkg/randompkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	username := randompkg.Username()
	email := randompkg.Email()
	phone := randompkg.PhoneNumber()

	account, err := repo.Create(ctx, username, email, phone)
	require.NoError(t, err)

	require.Equal(t, username, account.Username)
	require.Equal(t, email, account.Email)
	require.Equal(t, phone, account.PhoneNumber)
	require.Equal(t, "0", account.Balance)
	require.NotZero(t, account.ID)
	require.NotZero(t, account.CreatedAt)
	require.NotZero(t, account.UpdatedAt)
}

func TestCreateConstraintViolations(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	seeded := helpers.SeedAccount(t, tx)

	testCases := []struct {
		name     string
		username string
		email    string
		wantErr  error
	}{
		{
			name:     "ErrUsernameAlreadyExists",
			username: seeded.Username,
			email:    randompkg.Email(),
			wantErr:  domain.ErrUsernameAlreadyExists,
		},
		{
			name:     "ErrEmailAlreadyExists",
			username: randompkg.Username(),
			email:    seeded.Email,
			wantErr:  domain.ErrEmailAlreadyExists,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			account, err := repo.Create(ctx, tc.username, tc.email, "")
			require.EqualError(t, err, tc.wantErr.Error())
			require.Empty(t, account)
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	seeded := helpers.SeedAccount(t, tx)

	account, err := repo.Get(ctx, seeded.ID)
	require.NoError(t, err)
	require.Equal(t, seeded, account)

	_, err = repo.Get(ctx, seeded.ID+1_000_000)
	require.EqualError(t, err, domain.ErrAccountNotFound.Error())
}

func TestAddBalance(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	seeded := helpers.SeedAccountWithBalance(t, tx, "100.00")

	t.Run("OK", func(t *testing.T) {
		account, err := repo.AddBalance(ctx, "25.50", seeded.ID)
		require.NoError(t, err)

		require.True(t, decimal.RequireFromString(account.Balance).Equal(decimal.RequireFromString("125.50")),
			"got balance %v", account.Balance)
		require.True(t, account.UpdatedAt.After(seeded.UpdatedAt) || account.UpdatedAt.Equal(seeded.UpdatedAt))

		// Down to exactly zero must succeed.
		account, err = repo.AddBalance(ctx, "-125.50", seeded.ID)
		require.NoError(t, err)
		require.True(t, decimal.RequireFromString(account.Balance).IsZero())

		// Restore for the following subtests.
		_, err = repo.AddBalance(ctx, "100.00", seeded.ID)
		require.NoError(t, err)
	})

	t.Run("ErrInsufficientBalance", func(t *testing.T) {
		_, err := repo.AddBalance(ctx, "-150.00", seeded.ID)

		var insufficient *domain.InsufficientBalanceError
		require.True(t, errors.As(err, &insufficient))
		require.True(t, decimal.RequireFromString(insufficient.Current).Equal(decimal.RequireFromString("100.00")))
		require.True(t, decimal.RequireFromString(insufficient.Required).Equal(decimal.RequireFromString("150.00")))

		account, err := repo.Get(ctx, seeded.ID)
		require.NoError(t, err)
		require.True(t, decimal.RequireFromString(account.Balance).Equal(decimal.RequireFromString("100.00")))
	})

	t.Run("ErrAccountNotFound", func(t *testing.T) {
		_, err := repo.AddBalance(ctx, "10", seeded.ID+1_000_000)
		require.EqualError(t, err, domain.ErrAccountNotFound.Error())
	})

	t.Run("ErrInvalidAmount", func(t *testing.T) {
		_, err := repo.AddBalance(ctx, "0", seeded.ID)
		require.EqualError(t, err, domain.ErrInvalidAmount.Error())

		_, err = repo.AddBalance(ctx, "!@#", seeded.ID)
		require.EqualError(t, err, domain.ErrInvalidAmount.Error())
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	seeded := helpers.SeedAccount(t, tx)

	newUsername := randompkg.Username()

	account, err := repo.UpdateProfile(ctx, seeded.ID, newUsername, "")
	require.NoError(t, err)
	require.Equal(t, newUsername, account.Username)
	require.Equal(t, seeded.PhoneNumber, account.PhoneNumber)
	require.Equal(t, seeded.Email, account.Email)

	_, err = repo.UpdateProfile(ctx, seeded.ID+1_000_000, randompkg.Username(), "")
	require.EqualError(t, err, domain.ErrAccountNotFound.Error())
}
