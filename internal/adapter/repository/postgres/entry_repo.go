package postgres

import (
	"context"

	"github.com/iho/jobledger/internal/domain"
	"github.com/iho/jobledger/internal/infrastructure/postgres/generated"
	"github.com/iho/jobledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// Create creates a new entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateEntry(ctx, generated.CreateEntryParams{
		ID:              entry.ID,
		ReferenceID:     entry.ReferenceID,
		Kind:            string(entry.Kind),
		ProfileID:       entry.ProfileID,
		Amount:          decimalToNumeric(entry.Amount),
		PreviousBalance: decimalToNumeric(entry.PreviousBalance),
		CurrentBalance:  decimalToNumeric(entry.CurrentBalance),
		CreatedAt:       timeToPgTimestamptz(entry.CreatedAt),
	})
}

// ListByProfile retrieves a profile's entries, oldest first.
func (r *EntryRepository) ListByProfile(ctx context.Context, profileID int64) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &domain.Entry{
			ID:              row.ID,
			ReferenceID:     row.ReferenceID,
			Kind:            domain.EntryKind(row.Kind),
			ProfileID:       row.ProfileID,
			Amount:          numericToDecimal(row.Amount),
			PreviousBalance: numericToDecimal(row.PreviousBalance),
			CurrentBalance:  numericToDecimal(row.CurrentBalance),
			CreatedAt:       row.CreatedAt.Time,
		})
	}

	return entries, nil
}
