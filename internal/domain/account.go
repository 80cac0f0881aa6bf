// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUsernameAlreadyExists indicates that the account with the given username already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrEmailAlreadyExists indicates that the account with the given email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Account holds the current wallet balance and owner profile data.
//
// Balance is a cached projection of the account's ledger entries; it is
// mutated only inside a wallet transaction and UpdatedAt advances on
// every mutation.
type Account struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Balance     string    `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateAccountParams is the input data to open an account.
type CreateAccountParams struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// UpdateProfileParams is the input data to update account profile fields.
//
// Empty fields are left unchanged.
type UpdateProfileParams struct {
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
}
