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

// JobRepository implements usecase.JobRepository.
type JobRepository struct {
	queries *generated.Queries
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db generated.DBTX) *JobRepository {
	return &JobRepository{queries: generated.New(db)}
}

// GetWithContractForUpdate loads a job with its contract and locks the job row.
func (r *JobRepository) GetWithContractForUpdate(ctx context.Context, tx usecase.Transaction, jobID int64) (*domain.JobWithContract, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetJobWithContractForUpdate(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("job %d not found", jobID)
		}

		return nil, err
	}

	return &domain.JobWithContract{
		Job:      rowToJob(row.Job),
		Contract: rowToContract(row.Contract),
	}, nil
}

// MarkPaid flips the paid latch. It reports false when no unpaid row matched.
func (r *JobRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, jobID int64, paidAt time.Time) (bool, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return false, err
	}

	affected, err := queries.MarkJobPaid(ctx, generated.MarkJobPaidParams{
		ID:          jobID,
		PaymentDate: timeToPgTimestamptz(paidAt),
	})
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

// SumUnpaidByClient sums unpaid job prices across the client's in_progress contracts.
func (r *JobRepository) SumUnpaidByClient(ctx context.Context, tx usecase.Transaction, clientID int64) (decimal.Decimal, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return decimal.Zero, err
	}

	total, err := queries.SumUnpaidJobsByClient(ctx, clientID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// ListUnpaidByProfile lists unpaid jobs on in_progress contracts of the profile.
func (r *JobRepository) ListUnpaidByProfile(ctx context.Context, profileID int64) ([]*domain.Job, error) {
	rows, err := r.queries.ListUnpaidJobsByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	jobs := make([]*domain.Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, rowToJob(row))
	}

	return jobs, nil
}

func rowToJob(row generated.Job) *domain.Job {
	return &domain.Job{
		ID:          row.ID,
		ContractID:  row.ContractID,
		Description: row.Description,
		Price:       numericToDecimal(row.Price),
		Paid:        row.Paid,
		PaymentDate: pgTimestamptzToTimePtr(row.PaymentDate),
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
