package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking account rows
	DefaultTransactionTimeout = 10 * time.Second

	// MaxEntryAmount is the maximum amount for a single posting, in minor units
	// (one billion rand in cents)
	MaxEntryAmount = 100_000_000_000

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultAccountCacheTTL is how long account reads may be served from cache
	DefaultAccountCacheTTL = 30 * time.Second
)
