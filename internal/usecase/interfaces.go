//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/domain"
)

// ProfileRepository defines data access for profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Profile, error)
	// GetByIDsForUpdate locks the rows in ascending id order. Missing ids
	// are omitted from the result.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []int64) ([]*domain.Profile, error)
	UpdateBalance(ctx context.Context, tx Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error
}

// ContractRepository defines data access for contracts.
type ContractRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Contract, error)
	ListActiveByProfile(ctx context.Context, profileID int64) ([]*domain.Contract, error)
}

// JobRepository defines data access for jobs.
type JobRepository interface {
	// GetWithContractForUpdate loads a job and its contract, locking the job row.
	GetWithContractForUpdate(ctx context.Context, tx Transaction, jobID int64) (*domain.JobWithContract, error)
	// MarkPaid flips paid from false to true. It returns false when the job
	// was already paid.
	MarkPaid(ctx context.Context, tx Transaction, jobID int64, paidAt time.Time) (bool, error)
	// SumUnpaidByClient sums unpaid job prices over the client's in_progress contracts.
	SumUnpaidByClient(ctx context.Context, tx Transaction, clientID int64) (decimal.Decimal, error)
	ListUnpaidByProfile(ctx context.Context, profileID int64) ([]*domain.Job, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	ListByProfile(ctx context.Context, profileID int64) ([]*domain.Entry, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	// SumTransferEntries returns the net amount of all transfer entries.
	SumTransferEntries(ctx context.Context) (decimal.Decimal, error)
	// ListBalanceDrift returns profiles whose balance differs from their
	// latest entry's current balance.
	ListBalanceDrift(ctx context.Context) ([]BalanceDrift, error)
}

// BalanceDrift is a profile whose stored balance disagrees with its entries.
type BalanceDrift struct {
	ProfileID    int64
	Balance      decimal.Decimal
	EntryBalance decimal.Decimal
}

// IsolationLevel selects the transaction isolation for an operation.
type IsolationLevel int

const (
	ReadCommitted IsolationLevel = iota
	Serializable
)

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context, iso IsolationLevel) (Transaction, error)
}

// Retrier re-runs an operation on transient store conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

// MetricsRecorder observes ledger operation outcomes.
type MetricsRecorder interface {
	ObservePayment(outcome string, amount decimal.Decimal)
	ObserveDeposit(outcome string, amount decimal.Decimal)
	ObserveTransfer(outcome string, amount decimal.Decimal)
}
