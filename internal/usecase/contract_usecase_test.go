package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/jobledger/internal/domain"
	"github.com/iho/jobledger/internal/usecase"
	"github.com/iho/jobledger/internal/usecase/mocks"
)

func TestEnsureParticipant(t *testing.T) {
	contract := &domain.Contract{ID: 1, ClientID: 1, ContractorID: 5}

	assert.NoError(t, usecase.EnsureParticipant(contract, 1))
	assert.NoError(t, usecase.EnsureParticipant(contract, 5))
	assert.ErrorIs(t, usecase.EnsureParticipant(contract, 2), domain.ErrUnauthorized)
	assert.ErrorIs(t, usecase.EnsureParticipant(nil, 1), domain.ErrUnauthorized)

	assert.NoError(t, usecase.EnsureClient(contract, 1))
	assert.ErrorIs(t, usecase.EnsureClient(contract, 5), domain.ErrUnauthorized)
}

func TestContractUseCase_GetContract(t *testing.T) {
	f := newFixture(t)
	f.client(1, "0")
	f.contractor(5, "0")
	f.contract(1, 1, 5, domain.ContractNew)

	uc := usecase.NewContractUseCase(f.store.ContractRepository())
	ctx := context.Background()

	contract, err := uc.GetContract(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), contract.ID)

	_, err = uc.GetContract(ctx, 1, 3)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.GetContract(ctx, 9, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContractUseCase_ListActiveContracts(t *testing.T) {
	f := newFixture(t)
	f.contract(1, 1, 5, domain.ContractNew)
	f.contract(2, 1, 6, domain.ContractInProgress)
	f.contract(3, 1, 5, domain.ContractTerminated)
	f.contract(4, 2, 5, domain.ContractInProgress)

	uc := usecase.NewContractUseCase(f.store.ContractRepository())

	contracts, err := uc.ListActiveContracts(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, int64(1), contracts[0].ID)
	assert.Equal(t, int64(2), contracts[1].ID)

	_, err = uc.ListActiveContracts(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestJobUseCase_ListUnpaidJobs(t *testing.T) {
	f := newFixture(t)
	seedDepositable(f)

	uc := usecase.NewJobUseCase(f.store)

	jobs, err := uc.ListUnpaidJobs(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, int64(1), jobs[0].ID)
	assert.Equal(t, int64(2), jobs[1].ID)

	// contractor side sees only the jobs on its own contracts
	jobs, err = uc.ListUnpaidJobs(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, int64(2), jobs[0].ID)
}

func TestReconciliationUseCase(t *testing.T) {
	f := newFixture(t)
	seedPayable(f)
	f.job(3, 1, "100", false)
	ctx := context.Background()

	_, err := f.payments.PayJob(ctx, 2, 1)
	require.NoError(t, err)
	_, err = f.deposits.AdmitDeposit(ctx, usecase.AdmitDepositInput{ClientID: 1, Amount: dec("25")})
	require.NoError(t, err)

	uc := usecase.NewReconciliationUseCase(f.store, f.store, f.store, mocks.FixedClock{T: testNow})

	report, err := uc.CheckConservation(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.True(t, report.TransferNet.IsZero())
	assert.Empty(t, report.Drift)

	statement, err := uc.ProfileStatement(ctx, 1)
	require.NoError(t, err)
	assert.True(t, statement.Profile.Balance.Equal(dec("875")))
	require.Len(t, statement.Entries, 2)
	assert.Equal(t, domain.EntryTransferDebit, statement.Entries[0].Kind)
	assert.Equal(t, domain.EntryDeposit, statement.Entries[1].Kind)

	_, err = uc.ProfileStatement(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
