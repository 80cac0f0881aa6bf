// Package eventspkg publishes wallet events to downstream consumers.
package eventspkg

import (
	"time"
)

// TopicTransactionCompleted is published after a wallet operation commits.
const TopicTransactionCompleted = "transaction_completed"

// TransactionCompleted describes one committed ledger entry.
type TransactionCompleted struct {
	EntryID               int64     `json:"entry_id"`
	AccountID             int64     `json:"account_id"`
	Kind                  string    `json:"kind"`
	Amount                string    `json:"amount"`
	CounterpartyAccountID *int64    `json:"counterparty_account_id,omitempty"`
	OccurredAt            time.Time `json:"occurred_at"`
}

// NoopPublisher discards events. It is used when no broker is configured.
type NoopPublisher struct{}

// NewNoopPublisher returns a publisher that discards events.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish implements the publisher contract and does nothing.
func (*NoopPublisher) Publish(topic string, event any) error {
	return nil
}
