// Package entryrepo manages repository layer of ledger entries.
package entryrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/dbpkg"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates entry repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns entry RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    entries (account_id, kind, amount, counterparty_account_id, description)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, account_id, kind, amount, counterparty_account_id, paired_entry_id, COALESCE(description, ''), created_at
`

// Create records the entry and then returns it.
//
// The id and timestamp are assigned atomically with insertion; the row
// becomes visible to readers only when the enclosing transaction commits.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateEntryParams) (domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AccountID,
		arg.Kind,
		arg.Amount,
		nullInt64(arg.CounterpartyAccountID),
		nullString(arg.Description),
	)

	e, err := scanEntry(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "entries_account_id_fkey", "entries_counterparty_account_id_fkey":
				return e, domain.ErrAccountNotFound
			case "entries_amount_check":
				return e, domain.ErrInvalidAmount
			}
		}

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const setPairedQuery = `
UPDATE entries
SET paired_entry_id = $1
WHERE id = $2
`

// SetPaired cross-links a transfer entry to its sibling.
//
// It must run inside the same transaction that created both entries, so
// the pair link is committed with them or not at all.
func (r *RepoPGS) SetPaired(ctx context.Context, id, pairedID int64) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, setPairedQuery, pairedID, id); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const getQuery = `
SELECT id, account_id, kind, amount, counterparty_account_id, paired_entry_id, COALESCE(description, ''), created_at
FROM entries
WHERE id = $1
`

// Get returns the entry with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return e, domain.ErrEntryNotFound
		}

		l.Error().Err(err).Send()

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const listQuery = `
SELECT id, account_id, kind, amount, counterparty_account_id, paired_entry_id, COALESCE(description, ''), created_at
FROM entries
WHERE account_id = $1
ORDER BY id DESC
LIMIT $2 OFFSET $3
`

// List returns the account's entries, most recent first.
func (r *RepoPGS) List(ctx context.Context, accountID int64, limit, offset int32) ([]domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, accountID, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Entry{}

	for rows.Next() {
		e, err := scanEntryRows(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const countQuery = `
SELECT count(*) FROM entries
WHERE account_id = $1
`

// Count returns the total number of entries for the account.
func (r *RepoPGS) Count(ctx context.Context, accountID int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	var total int64

	if err := r.db.QueryRowContext(ctx, countQuery, accountID).Scan(&total); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return total, nil
}

func scanEntry(row *sql.Row) (domain.Entry, error) {
	var (
		e            domain.Entry
		counterparty sql.NullInt64
		paired       sql.NullInt64
	)

	err := row.Scan(
		&e.ID,
		&e.AccountID,
		&e.Kind,
		&e.Amount,
		&counterparty,
		&paired,
		&e.Description,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	setOptionalIDs(&e, counterparty, paired)

	return e, nil
}

func scanEntryRows(rows *sql.Rows) (domain.Entry, error) {
	var (
		e            domain.Entry
		counterparty sql.NullInt64
		paired       sql.NullInt64
	)

	err := rows.Scan(
		&e.ID,
		&e.AccountID,
		&e.Kind,
		&e.Amount,
		&counterparty,
		&paired,
		&e.Description,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	setOptionalIDs(&e, counterparty, paired)

	return e, nil
}

func setOptionalIDs(e *domain.Entry, counterparty, paired sql.NullInt64) {
	if counterparty.Valid {
		e.CounterpartyAccountID = &counterparty.Int64
	}

	if paired.Valid {
		e.PairedEntryID = &paired.Int64
	}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
