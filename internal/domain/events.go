package domain

import "time"

// Event types
const (
	EventTypeEntryPosted    = "entry.posted"
	EventTypeAccountOpened  = "account.opened"
	EventTypeUserRegistered = "user.registered"
)

// Aggregate types
const (
	AggregateTypeAccount = "account"
	AggregateTypeUser    = "user"
)

// OutboxEvent represents an event written in the same transaction as the
// state change it describes, published asynchronously.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryPostedEvent payload
type EntryPostedEvent struct {
	EntryID      string `json:"entry_id"`
	AccountID    string `json:"account_id"`
	Kind         string `json:"kind"`
	Amount       int64  `json:"amount"`
	BalanceAfter int64  `json:"balance_after"`
	Currency     string `json:"currency"`
	Reference    string `json:"reference,omitempty"`
}

// AccountOpenedEvent payload
type AccountOpenedEvent struct {
	AccountID     string `json:"account_id"`
	OwnerID       string `json:"owner_id"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type"`
	Currency      string `json:"currency"`
}

// UserRegisteredEvent payload
type UserRegisteredEvent struct {
	UserID        string `json:"user_id"`
	AccountNumber string `json:"account_number"`
	Email         string `json:"email"`
}
