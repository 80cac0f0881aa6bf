package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrEntryNotFound indicates that the ledger entry is not found.
var ErrEntryNotFound = errors.New("entry not found")

// EntryKind classifies a ledger entry and carries its balance direction.
type EntryKind string

const (
	// EntryKindCredit is money added to the account.
	EntryKindCredit EntryKind = "CREDIT"
	// EntryKindDebit is money withdrawn from the account.
	EntryKindDebit EntryKind = "DEBIT"
	// EntryKindTransferIn is the recipient leg of a transfer.
	EntryKindTransferIn EntryKind = "TRANSFER_IN"
	// EntryKindTransferOut is the sender leg of a transfer.
	EntryKindTransferOut EntryKind = "TRANSFER_OUT"
)

// Inbound reports whether the kind increases the account balance.
func (k EntryKind) Inbound() bool {
	return k == EntryKindCredit || k == EntryKindTransferIn
}

// Transfer reports whether the kind is one leg of a transfer.
func (k EntryKind) Transfer() bool {
	return k == EntryKindTransferIn || k == EntryKindTransferOut
}

// Entry holds an immutable balance change record for an account.
//
// Amount is always positive; Kind carries the direction. For transfer
// kinds CounterpartyAccountID is the other account and PairedEntryID
// points to the sibling entry created in the same transaction.
type Entry struct {
	ID                    int64     `json:"id"`
	AccountID             int64     `json:"account_id"`
	Kind                  EntryKind `json:"kind"`
	Amount                string    `json:"amount"`
	CounterpartyAccountID *int64    `json:"counterparty_account_id,omitempty"`
	PairedEntryID         *int64    `json:"paired_entry_id,omitempty"`
	Description           string    `json:"description,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// SignedAmount returns the entry amount signed by its kind, so that the
// sum of signed amounts over an account's entries equals its balance.
func (e Entry) SignedAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(e.Amount)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if !e.Kind.Inbound() {
		amount = amount.Neg()
	}

	return amount, nil
}

// CreateEntryParams is the input data to record a ledger entry.
type CreateEntryParams struct {
	AccountID             int64
	Kind                  EntryKind
	Amount                string
	CounterpartyAccountID *int64
	Description           string
}
