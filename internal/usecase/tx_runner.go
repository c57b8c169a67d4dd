package usecase

import (
	"context"
	"fmt"
	"time"
)

// TxRunner runs a unit of work inside exactly one transaction. The
// transaction is rolled back on every exit path that does not commit.
// Transient store conflicts restart the whole unit through the Retrier.
type TxRunner struct {
	txManager TransactionManager
	retrier   Retrier
	timeout   time.Duration
}

// NewTxRunner creates a new TxRunner. A nil retrier runs each unit once;
// a non-positive timeout falls back to DefaultTransactionTimeout.
func NewTxRunner(txManager TransactionManager, retrier Retrier, timeout time.Duration) *TxRunner {
	if timeout <= 0 {
		timeout = DefaultTransactionTimeout
	}

	return &TxRunner{
		txManager: txManager,
		retrier:   retrier,
		timeout:   timeout,
	}
}

// Run executes fn in a transaction with the given isolation level.
func (r *TxRunner) Run(ctx context.Context, iso IsolationLevel, fn func(ctx context.Context, tx Transaction) error) error {
	attempt := func() error {
		return r.runOnce(ctx, iso, fn)
	}

	if r.retrier == nil {
		return attempt()
	}

	return r.retrier.Retry(ctx, attempt)
}

func (r *TxRunner) runOnce(ctx context.Context, iso IsolationLevel, fn func(ctx context.Context, tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.txManager.Begin(ctx, iso)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
