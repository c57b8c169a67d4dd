package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// Outcome label used by metrics for successful operations.
	OutcomeOK = "ok"

	// Outcome label for failures that are not ledger errors.
	OutcomeInternal = "internal"
)
