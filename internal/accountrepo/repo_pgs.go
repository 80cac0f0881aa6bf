// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/dbpkg"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (username, email, phone_number, balance)
VALUES
    ($1, $2, $3, 0)
RETURNING id, username, email, COALESCE(phone_number, ''), balance, created_at, updated_at
`

// Create opens an account with zero balance and returns it.
func (r *RepoPGS) Create(ctx context.Context, username, email, phoneNumber string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, username, email, nullString(phoneNumber))

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_username_key":
				return a, domain.ErrUsernameAlreadyExists
			case "accounts_email_key":
				return a, domain.ErrEmailAlreadyExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, username, email, COALESCE(phone_number, ''), balance, created_at, updated_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getForUpdateQuery = `
SELECT
	id, username, email, COALESCE(phone_number, ''), balance, created_at, updated_at
FROM accounts
WHERE id = $1
FOR UPDATE
`

const setBalanceQuery = `
UPDATE accounts
SET balance = $1, updated_at = now()
WHERE id = $2
RETURNING id, username, email, COALESCE(phone_number, ''), balance, created_at, updated_at
`

// AddBalance applies a signed delta to the account balance and returns the
// changed account.
//
// The row is locked for the rest of the enclosing transaction, so two
// concurrent adjustments of the same account are serialized and neither
// overwrites the other's result. Callers locking several accounts must do
// so in ascending id order to avoid deadlocks.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	delta, err := decimal.NewFromString(amount)
	if err != nil || delta.IsZero() {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	row := r.db.QueryRowContext(ctx, getForUpdateQuery, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			// serialization_failure or deadlock_detected
			if pqErr.Code == "40001" || pqErr.Code == "40P01" {
				return a, domain.ErrConflict
			}
		}

		return a, errorspkg.ErrInternal
	}

	balance, err := decimal.NewFromString(a.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	newBalance := balance.Add(delta)
	if newBalance.IsNegative() {
		return domain.Account{}, &domain.InsufficientBalanceError{
			Current:  a.Balance,
			Required: delta.Abs().String(),
		}
	}

	row = r.db.QueryRowContext(ctx, setBalanceQuery, newBalance.String(), id)

	a, err = scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()
		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const updateProfileQuery = `
UPDATE accounts
SET username = COALESCE(NULLIF($1, ''), username),
	phone_number = COALESCE(NULLIF($2, ''), phone_number)
WHERE id = $3
RETURNING id, username, email, COALESCE(phone_number, ''), balance, created_at, updated_at
`

// UpdateProfile updates the account's profile fields and returns the changed account.
//
// Empty arguments leave the corresponding field unchanged.
func (r *RepoPGS) UpdateProfile(ctx context.Context, id int64, username, phoneNumber string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateProfileQuery, username, phoneNumber, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_username_key" {
				return a, domain.ErrUsernameAlreadyExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PhoneNumber,
		&a.Balance,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	return a, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
