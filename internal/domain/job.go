package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Job is a billable unit of work under a contract.
type Job struct {
	ID          int64
	ContractID  int64
	Description string
	Price       decimal.Decimal
	Paid        bool
	PaymentDate *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MarkPaid latches the job into the paid state. It fails if the job was
// already paid; the latch never reverts.
func (j *Job) MarkPaid(at time.Time) error {
	if j.Paid {
		return AlreadyPaid("job %d is already paid", j.ID)
	}

	j.Paid = true
	j.PaymentDate = &at
	j.UpdatedAt = at

	return nil
}

// JobWithContract is a job joined with the contract it belongs to.
type JobWithContract struct {
	Job      *Job
	Contract *Contract
}
