package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates non-positive amount.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrSelfTransfer indicates a transfer where sender and recipient are the same account.
	ErrSelfTransfer = errors.New("sender and recipient accounts are the same")
	// ErrConflict indicates that concurrent mutations of the same accounts could not be serialized.
	ErrConflict = errors.New("concurrent update conflict")
)

// InsufficientBalanceError indicates that the account balance does not
// cover the requested amount. It carries both sides of the shortfall so
// callers can render a precise message.
type InsufficientBalanceError struct {
	Current  string
	Required string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: current %s, required %s", e.Current, e.Required)
}

// CreditParams is the input data to add money to an account.
type CreditParams struct {
	AccountID   int64  `json:"account_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// DebitParams is the input data to withdraw money from an account.
type DebitParams struct {
	AccountID   int64  `json:"account_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// TransferParams is the input data for the transfer transaction.
type TransferParams struct {
	FromAccountID int64  `json:"from_account_id"`
	ToAccountID   int64  `json:"to_account_id"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
}

// OperationResult is the result of a credit or debit transaction.
type OperationResult struct {
	Account Account `json:"account"`
	Entry   Entry   `json:"entry"`
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	FromAccount Account `json:"from_account"`
	ToAccount   Account `json:"to_account"`
	FromEntry   Entry   `json:"from_entry"`
	ToEntry     Entry   `json:"to_entry"`
}
