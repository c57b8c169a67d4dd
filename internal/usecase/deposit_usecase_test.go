package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/jobledger/internal/domain"
	"github.com/iho/jobledger/internal/usecase"
	"github.com/iho/jobledger/internal/usecase/mocks"
)

// seedDepositable gives client 1 an unpaid sum of 410 on in_progress work,
// plus jobs that must not count toward the limit.
func seedDepositable(f *fixture) {
	f.client(1, "100")
	f.contractor(5, "0")
	f.contractor(6, "0")
	f.contract(1, 1, 5, domain.ContractInProgress)
	f.contract(2, 1, 6, domain.ContractInProgress)
	f.contract(3, 1, 5, domain.ContractNew)
	f.contract(4, 1, 6, domain.ContractTerminated)
	f.job(1, 1, "110", false)
	f.job(2, 2, "300", false)
	f.job(3, 1, "999", true)
	f.job(4, 3, "5000", false)
	f.job(5, 4, "5000", false)
}

func TestDepositUseCase_Boundary(t *testing.T) {
	f := newFixture(t)
	seedDepositable(f)
	ctx := context.Background()

	result, err := f.deposits.AdmitDeposit(ctx, usecase.AdmitDepositInput{ClientID: 1, Amount: dec("102.5")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ProfileID)
	assert.True(t, result.NewBalance.Equal(dec("202.5")), "balance %s", result.NewBalance)

	_, err = f.deposits.AdmitDeposit(ctx, usecase.AdmitDepositInput{ClientID: 1, Amount: dec("102.6")})
	require.ErrorIs(t, err, domain.ErrDepositLimitExceeded)

	assert.True(t, f.store.Profile(1).Balance.Equal(dec("202.5")))

	entries := f.store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EntryDeposit, entries[0].Kind)
	assert.True(t, entries[0].PreviousBalance.Equal(dec("100")))

	assert.Equal(t, []string{"ok", "deposit_limit_exceeded"}, f.metrics.outcomes("deposit"))
}

func TestDepositUseCase_UsesSerializableIsolation(t *testing.T) {
	f := newFixture(t)
	seedDepositable(f)

	_, err := f.deposits.AdmitDeposit(context.Background(), usecase.AdmitDepositInput{ClientID: 1, Amount: dec("10")})
	require.NoError(t, err)

	require.Len(t, f.store.Begins, 1)
	assert.Equal(t, usecase.Serializable, f.store.Begins[0])
}

func TestDepositUseCase_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(f *fixture)
		input   usecase.AdmitDepositInput
		wantErr error
	}{
		{
			name:    "zero unpaid sum rejects any deposit",
			seed:    func(f *fixture) { f.client(1, "0") },
			input:   usecase.AdmitDepositInput{ClientID: 1, Amount: dec("0.01")},
			wantErr: domain.ErrDepositLimitExceeded,
		},
		{
			name:    "missing profile",
			seed:    seedDepositable,
			input:   usecase.AdmitDepositInput{ClientID: 42, Amount: dec("1")},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "contractor profile",
			seed:    seedDepositable,
			input:   usecase.AdmitDepositInput{ClientID: 5, Amount: dec("1")},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "zero amount",
			seed:    seedDepositable,
			input:   usecase.AdmitDepositInput{ClientID: 1, Amount: dec("0")},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "negative amount",
			seed:    seedDepositable,
			input:   usecase.AdmitDepositInput{ClientID: 1, Amount: dec("-5")},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "invalid client id",
			seed:    seedDepositable,
			input:   usecase.AdmitDepositInput{ClientID: 0, Amount: dec("5")},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.seed(f)

			result, err := f.deposits.AdmitDeposit(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.Empty(t, f.store.Entries())
			assert.Equal(t, 0, f.store.Commits)
		})
	}
}

func TestDepositUseCase_PaymentLowersLimit(t *testing.T) {
	f := newFixture(t)
	f.client(1, "1000")
	f.contractor(5, "0")
	f.contract(1, 1, 5, domain.ContractInProgress)
	f.job(1, 1, "110", false)
	f.job(2, 1, "300", false)
	ctx := context.Background()

	_, err := f.payments.PayJob(ctx, 2, 1)
	require.NoError(t, err)

	// unpaid is now 110, limit 27.5
	_, err = f.deposits.AdmitDeposit(ctx, usecase.AdmitDepositInput{ClientID: 1, Amount: dec("27.51")})
	require.ErrorIs(t, err, domain.ErrDepositLimitExceeded)

	_, err = f.deposits.AdmitDeposit(ctx, usecase.AdmitDepositInput{ClientID: 1, Amount: dec("27.5")})
	require.NoError(t, err)
}

func TestDepositUseCase_IdempotencyReplay(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	f := newFixture(t, usecase.WithIdempotency(store, time.Hour))
	seedDepositable(f)

	cached := []byte(`{"amount":"50","result":{"profile_id":1,"new_balance":"150"}}`)

	store.EXPECT().CheckAndSet(gomock.Any(), "deposit:1:abc", nil, time.Hour).Return(true, cached, nil)

	result, err := f.deposits.AdmitDeposit(context.Background(), usecase.AdmitDepositInput{ClientID: 1, Amount: dec("50"), IdempotencyKey: "abc"})
	require.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(dec("150")))

	assert.Empty(t, f.store.Begins, "replay must not open a transaction")
	assert.True(t, f.store.Profile(1).Balance.Equal(dec("100")))
}

func TestDepositUseCase_IdempotencyKeyReusedWithOtherAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	f := newFixture(t, usecase.WithIdempotency(store, time.Hour))
	seedDepositable(f)

	cached := []byte(`{"amount":"50","result":{"profile_id":1,"new_balance":"150"}}`)
	store.EXPECT().CheckAndSet(gomock.Any(), "deposit:1:abc", nil, time.Hour).Return(true, cached, nil)

	result, err := f.deposits.AdmitDeposit(context.Background(), usecase.AdmitDepositInput{ClientID: 1, Amount: dec("60"), IdempotencyKey: "abc"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, result)
	assert.Empty(t, f.store.Begins)
	assert.True(t, f.store.Profile(1).Balance.Equal(dec("100")))
}

func TestDepositUseCase_IdempotencyInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	f := newFixture(t, usecase.WithIdempotency(store, time.Hour))
	seedDepositable(f)

	store.EXPECT().CheckAndSet(gomock.Any(), "deposit:1:abc", nil, time.Hour).Return(true, []byte(usecase.IdempotencyPending), nil)

	_, err := f.deposits.AdmitDeposit(context.Background(), usecase.AdmitDepositInput{ClientID: 1, Amount: dec("50"), IdempotencyKey: "abc"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.store.Begins)
}

func TestDepositUseCase_IdempotencyStoresResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	f := newFixture(t, usecase.WithIdempotency(store, time.Hour))
	seedDepositable(f)

	gomock.InOrder(
		store.EXPECT().CheckAndSet(gomock.Any(), "deposit:1:abc", nil, time.Hour).Return(false, nil, nil),
		store.EXPECT().Update(gomock.Any(), "deposit:1:abc", gomock.Any(), time.Hour).DoAndReturn(
			func(_ context.Context, _ string, payload []byte, _ time.Duration) error {
				var stored struct {
					Amount string                `json:"amount"`
					Result usecase.DepositResult `json:"result"`
				}
				require.NoError(t, json.Unmarshal(payload, &stored))
				assert.Equal(t, "50", stored.Amount)
				assert.True(t, stored.Result.NewBalance.Equal(dec("150")))
				return nil
			},
		),
	)

	result, err := f.deposits.AdmitDeposit(context.Background(), usecase.AdmitDepositInput{ClientID: 1, Amount: dec("50"), IdempotencyKey: "abc"})
	require.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(dec("150")))

	entries := f.store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "deposit:1:abc", entries[0].ReferenceID)
}

func TestDepositUseCase_IdempotencyReleasedOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	f := newFixture(t, usecase.WithIdempotency(store, time.Hour))
	seedDepositable(f)

	gomock.InOrder(
		store.EXPECT().CheckAndSet(gomock.Any(), "deposit:1:abc", nil, time.Hour).Return(false, nil, nil),
		store.EXPECT().Release(gomock.Any(), "deposit:1:abc").Return(nil),
	)

	_, err := f.deposits.AdmitDeposit(context.Background(), usecase.AdmitDepositInput{ClientID: 1, Amount: dec("500"), IdempotencyKey: "abc"})
	require.ErrorIs(t, err, domain.ErrDepositLimitExceeded)
}

func TestDepositUseCase_IdempotencyStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	f := newFixture(t, usecase.WithIdempotency(store, time.Hour))
	seedDepositable(f)

	redisDown := errors.New("connection refused")
	store.EXPECT().CheckAndSet(gomock.Any(), gomock.Any(), nil, time.Hour).Return(false, nil, redisDown)

	_, err := f.deposits.AdmitDeposit(context.Background(), usecase.AdmitDepositInput{ClientID: 1, Amount: dec("5"), IdempotencyKey: "abc"})
	require.ErrorIs(t, err, redisDown)
	assert.Equal(t, domain.ErrorKind(""), domain.KindOf(err))
}

// A deposit racing a payment must behave like one of the two serial orders:
// deposit first (admitted against unpaid 400, then the job is paid) or
// payment first (unpaid drops to 0 and the deposit is rejected).
func TestDepositUseCase_RacesPayment(t *testing.T) {
	for i := 0; i < 25; i++ {
		f := newFixture(t)
		f.client(1, "1000")
		f.contractor(5, "0")
		f.contract(1, 1, 5, domain.ContractInProgress)
		f.job(1, 1, "400", false)

		var (
			wg         sync.WaitGroup
			depositErr error
			payErr     error
		)

		start := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, depositErr = f.deposits.AdmitDeposit(context.Background(), usecase.AdmitDepositInput{ClientID: 1, Amount: dec("100")})
		}()
		go func() {
			defer wg.Done()
			<-start
			_, payErr = f.payments.PayJob(context.Background(), 1, 1)
		}()
		close(start)
		wg.Wait()

		require.NoError(t, payErr)
		assert.True(t, f.store.Profile(5).Balance.Equal(dec("400")))

		client := f.store.Profile(1).Balance
		switch {
		case depositErr == nil:
			assert.True(t, client.Equal(dec("700")), "deposit first: balance %s", client)
			assert.Len(t, f.store.Entries(), 3)
		case errors.Is(depositErr, domain.ErrDepositLimitExceeded):
			assert.True(t, client.Equal(dec("600")), "payment first: balance %s", client)
			assert.Len(t, f.store.Entries(), 2)
		default:
			t.Fatalf("unexpected deposit error: %v", depositErr)
		}
	}
}
