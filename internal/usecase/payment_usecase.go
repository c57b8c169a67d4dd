package usecase

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/domain"
)

// PaymentUseCase pays jobs from the client to the contractor.
type PaymentUseCase struct {
	runner  *TxRunner
	engine  *LedgerEngine
	jobRepo JobRepository
	clock   Clock
	metrics MetricsRecorder
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(runner *TxRunner, engine *LedgerEngine, jobRepo JobRepository, clock Clock, metrics MetricsRecorder) *PaymentUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &PaymentUseCase{
		runner:  runner,
		engine:  engine,
		jobRepo: jobRepo,
		clock:   clock,
		metrics: metrics,
	}
}

// PaymentResult is a paid job with the balances it left behind.
type PaymentResult struct {
	Job               *domain.Job
	ClientBalance     decimal.Decimal
	ContractorBalance decimal.Decimal
}

// PayJob pays a job on behalf of its contract's client. The transfer and
// the paid latch commit together or not at all.
func (uc *PaymentUseCase) PayJob(ctx context.Context, jobID, requestingClientID int64) (*PaymentResult, error) {
	var (
		result *PaymentResult
		price  decimal.Decimal
	)

	err := uc.runner.Run(ctx, ReadCommitted, func(ctx context.Context, tx Transaction) error {
		jc, err := uc.jobRepo.GetWithContractForUpdate(ctx, tx, jobID)
		if err != nil {
			return err
		}

		job, contract := jc.Job, jc.Contract
		price = job.Price

		if err := EnsureClient(contract, requestingClientID); err != nil {
			return err
		}

		if job.Paid {
			return domain.AlreadyPaid("job %d is already paid", job.ID)
		}

		if !contract.IsActive() {
			return domain.Validation("contract %d is %s, jobs are payable only while in_progress", contract.ID, contract.Status)
		}

		transfer, err := uc.engine.Transfer(ctx, tx, contract.ClientID, contract.ContractorID, job.Price, "job:"+strconv.FormatInt(job.ID, 10))
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if err := job.MarkPaid(now); err != nil {
			return err
		}

		updated, err := uc.jobRepo.MarkPaid(ctx, tx, job.ID, now)
		if err != nil {
			return err
		}
		if !updated {
			return domain.AlreadyPaid("job %d is already paid", job.ID)
		}

		result = &PaymentResult{
			Job:               job,
			ClientBalance:     transfer.FromBalance,
			ContractorBalance: transfer.ToBalance,
		}

		return nil
	})

	uc.metrics.ObservePayment(outcomeOf(err), price)

	if err != nil {
		return nil, err
	}

	return result, nil
}
