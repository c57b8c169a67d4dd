package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/domain"
)

// IdempotencyPending marks a key whose request has not finished yet.
const IdempotencyPending = "processing"

// DepositUseCase admits client deposits against outstanding unpaid work.
type DepositUseCase struct {
	runner      *TxRunner
	engine      *LedgerEngine
	profileRepo ProfileRepository
	jobRepo     JobRepository
	idempotency IdempotencyStore
	ttl         time.Duration
	metrics     MetricsRecorder
}

// DepositOption configures a DepositUseCase.
type DepositOption func(*DepositUseCase)

// WithIdempotency enables idempotency keys backed by store.
func WithIdempotency(store IdempotencyStore, ttl time.Duration) DepositOption {
	return func(uc *DepositUseCase) {
		uc.idempotency = store
		if ttl > 0 {
			uc.ttl = ttl
		}
	}
}

// WithDepositMetrics sets the metrics recorder.
func WithDepositMetrics(m MetricsRecorder) DepositOption {
	return func(uc *DepositUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

// NewDepositUseCase creates a new DepositUseCase.
func NewDepositUseCase(
	runner *TxRunner,
	engine *LedgerEngine,
	profileRepo ProfileRepository,
	jobRepo JobRepository,
	opts ...DepositOption,
) *DepositUseCase {
	uc := &DepositUseCase{
		runner:      runner,
		engine:      engine,
		profileRepo: profileRepo,
		jobRepo:     jobRepo,
		ttl:         IdempotencyKeyTTL,
		metrics:     NopMetrics{},
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// AdmitDepositInput represents input for a deposit.
type AdmitDepositInput struct {
	ClientID       int64
	Amount         decimal.Decimal
	IdempotencyKey string
}

// DepositResult is the client's balance after an admitted deposit.
type DepositResult struct {
	ProfileID  int64           `json:"profile_id"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// storedDeposit is what an idempotency key maps to once its deposit commits.
type storedDeposit struct {
	Amount decimal.Decimal `json:"amount"`
	Result DepositResult   `json:"result"`
}

// AdmitDeposit credits the client's balance if amount does not exceed a
// quarter of the unpaid job prices across the client's in_progress contracts.
func (uc *DepositUseCase) AdmitDeposit(ctx context.Context, input AdmitDepositInput) (*DepositResult, error) {
	result, err := uc.admitDeposit(ctx, input)
	uc.metrics.ObserveDeposit(outcomeOf(err), input.Amount)

	return result, err
}

func (uc *DepositUseCase) admitDeposit(ctx context.Context, input AdmitDepositInput) (*DepositResult, error) {
	if err := domain.ValidateProfileID(input.ClientID); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.IdempotencyKey == "" || uc.idempotency == nil {
		return uc.admit(ctx, input, "")
	}

	return uc.admitOnce(ctx, input)
}

func (uc *DepositUseCase) admitOnce(ctx context.Context, input AdmitDepositInput) (*DepositResult, error) {
	key := fmt.Sprintf("deposit:%d:%s", input.ClientID, input.IdempotencyKey)

	exists, cached, err := uc.idempotency.CheckAndSet(ctx, key, nil, uc.ttl)
	if err != nil {
		return nil, fmt.Errorf("idempotency check: %w", err)
	}

	if exists {
		if len(cached) == 0 || string(cached) == IdempotencyPending {
			return nil, domain.Validation("deposit with key %q is already in progress", input.IdempotencyKey)
		}

		var replay storedDeposit
		if err := json.Unmarshal(cached, &replay); err != nil {
			return nil, fmt.Errorf("decode stored deposit: %w", err)
		}

		if !replay.Amount.Equal(input.Amount) {
			return nil, domain.Validation(
				"idempotency key %q was used for a deposit of %s, not %s",
				input.IdempotencyKey, replay.Amount.StringFixed(2), input.Amount.StringFixed(2),
			)
		}

		return &replay.Result, nil
	}

	result, err := uc.admit(ctx, input, key)
	if err != nil {
		_ = uc.idempotency.Release(ctx, key)
		return nil, err
	}

	payload, err := json.Marshal(storedDeposit{Amount: input.Amount, Result: *result})
	if err == nil {
		_ = uc.idempotency.Update(ctx, key, payload, uc.ttl)
	}

	return result, nil
}

func (uc *DepositUseCase) admit(ctx context.Context, input AdmitDepositInput, reference string) (*DepositResult, error) {
	var result *DepositResult

	err := uc.runner.Run(ctx, Serializable, func(ctx context.Context, tx Transaction) error {
		client, err := uc.profileRepo.GetByIDForUpdate(ctx, tx, input.ClientID)
		if err != nil {
			return err
		}

		if !client.IsClient() {
			return domain.NotFound("client %d not found", input.ClientID)
		}

		unpaid, err := uc.jobRepo.SumUnpaidByClient(ctx, tx, input.ClientID)
		if err != nil {
			return err
		}

		limit := domain.DepositLimit(unpaid)
		if input.Amount.GreaterThan(limit) {
			return domain.DepositLimitExceeded(
				"deposit %s exceeds limit %s (25%% of unpaid %s)",
				input.Amount.StringFixed(2), limit.StringFixed(2), unpaid.StringFixed(2),
			)
		}

		balance, err := uc.engine.Credit(ctx, tx, client.ID, input.Amount, reference)
		if err != nil {
			return err
		}

		result = &DepositResult{ProfileID: client.ID, NewBalance: balance}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
