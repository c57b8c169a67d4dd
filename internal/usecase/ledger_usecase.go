package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// LedgerUseCase exposes direct profile-to-profile transfers.
type LedgerUseCase struct {
	runner  *TxRunner
	engine  *LedgerEngine
	metrics MetricsRecorder
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(runner *TxRunner, engine *LedgerEngine, metrics MetricsRecorder) *LedgerUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &LedgerUseCase{
		runner:  runner,
		engine:  engine,
		metrics: metrics,
	}
}

// TransferFunds moves amount between two profiles in its own transaction.
func (uc *LedgerUseCase) TransferFunds(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (*TransferResult, error) {
	var result *TransferResult

	err := uc.runner.Run(ctx, ReadCommitted, func(ctx context.Context, tx Transaction) error {
		res, err := uc.engine.Transfer(ctx, tx, fromID, toID, amount, "")
		if err != nil {
			return err
		}

		result = res

		return nil
	})

	uc.metrics.ObserveTransfer(outcomeOf(err), amount)

	if err != nil {
		return nil, err
	}

	return result, nil
}
