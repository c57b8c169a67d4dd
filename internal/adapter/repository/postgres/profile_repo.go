package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/domain"
	"github.com/iho/jobledger/internal/infrastructure/postgres/generated"
	"github.com/iho/jobledger/internal/usecase"
)

// ProfileRepository implements usecase.ProfileRepository.
type ProfileRepository struct {
	queries *generated.Queries
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db generated.DBTX) *ProfileRepository {
	return &ProfileRepository{queries: generated.New(db)}
}

// GetByID retrieves a profile by ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	row, err := r.queries.GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("profile %d not found", id)
		}

		return nil, err
	}

	return rowToProfile(row), nil
}

// GetByIDForUpdate retrieves a profile by ID with a FOR UPDATE lock.
func (r *ProfileRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Profile, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetProfileByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("profile %d not found", id)
		}

		return nil, err
	}

	return rowToProfile(row), nil
}

// GetByIDsForUpdate locks the given profiles in ascending id order.
func (r *ProfileRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.Profile, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.GetProfilesByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, rowToProfile(row))
	}

	return profiles, nil
}

// UpdateBalance updates the balance of a profile.
func (r *ProfileRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.UpdateProfileBalance(ctx, generated.UpdateProfileBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

func rowToProfile(row generated.Profile) *domain.Profile {
	return &domain.Profile{
		ID:         row.ID,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
		Profession: row.Profession,
		Balance:    numericToDecimal(row.Balance),
		Role:       domain.Role(row.Role),
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}
