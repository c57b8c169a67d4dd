package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/infrastructure/postgres/generated"
	"github.com/iho/jobledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// SumTransferEntries returns the net of all transfer entries.
func (r *LedgerRepository) SumTransferEntries(ctx context.Context) (decimal.Decimal, error) {
	net, err := r.queries.SumTransferEntries(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(net), nil
}

// ListBalanceDrift lists profiles whose balance disagrees with their latest entry.
func (r *LedgerRepository) ListBalanceDrift(ctx context.Context) ([]usecase.BalanceDrift, error) {
	rows, err := r.queries.ListBalanceDrift(ctx)
	if err != nil {
		return nil, err
	}

	drift := make([]usecase.BalanceDrift, 0, len(rows))
	for _, row := range rows {
		drift = append(drift, usecase.BalanceDrift{
			ProfileID:    row.ID,
			Balance:      numericToDecimal(row.Balance),
			EntryBalance: numericToDecimal(row.CurrentBalance),
		})
	}

	return drift, nil
}
