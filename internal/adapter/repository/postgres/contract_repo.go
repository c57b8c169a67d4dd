package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/jobledger/internal/domain"
	"github.com/iho/jobledger/internal/infrastructure/postgres/generated"
)

// ContractRepository implements usecase.ContractRepository.
type ContractRepository struct {
	queries *generated.Queries
}

// NewContractRepository creates a new ContractRepository.
func NewContractRepository(db generated.DBTX) *ContractRepository {
	return &ContractRepository{queries: generated.New(db)}
}

// GetByID retrieves a contract by ID.
func (r *ContractRepository) GetByID(ctx context.Context, id int64) (*domain.Contract, error) {
	row, err := r.queries.GetContractByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("contract %d not found", id)
		}

		return nil, err
	}

	return rowToContract(row), nil
}

// ListActiveByProfile lists the profile's non-terminated contracts.
func (r *ContractRepository) ListActiveByProfile(ctx context.Context, profileID int64) ([]*domain.Contract, error) {
	rows, err := r.queries.ListActiveContractsByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	contracts := make([]*domain.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, rowToContract(row))
	}

	return contracts, nil
}

func rowToContract(row generated.Contract) *domain.Contract {
	return &domain.Contract{
		ID:           row.ID,
		ClientID:     row.ClientID,
		ContractorID: row.ContractorID,
		Terms:        row.Terms,
		Status:       domain.ContractStatus(row.Status),
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
