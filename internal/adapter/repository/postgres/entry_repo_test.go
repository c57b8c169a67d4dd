package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/jobledger/internal/domain"
)

var entryColumns = []string{"id", "reference_id", "kind", "profile_id", "amount", "previous_balance", "current_balance", "created_at"}

func TestEntryRepositoryCreate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO ledger_entries")).
		WithArgs("01HQ", "job:2", "transfer_debit", int64(1), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), ts(repoNow)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := NewEntryRepository(mockPool).Create(context.Background(), tx, &domain.Entry{
		ID:              "01HQ",
		ReferenceID:     "job:2",
		Kind:            domain.EntryTransferDebit,
		ProfileID:       1,
		Amount:          decimal.RequireFromString("-300"),
		PreviousBalance: decimal.RequireFromString("1150"),
		CurrentBalance:  decimal.RequireFromString("850"),
		CreatedAt:       repoNow,
	})
	require.NoError(t, err)
	assertExpectations(t, mockPool)
}

func TestEntryRepositoryListByProfile(t *testing.T) {
	mockPool := newMockPool(t)

	// ULIDs from separate processes are not ordered, so statements order by time first.
	mockPool.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at, id")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(entryColumns).
			AddRow("01A", "job:2", "transfer_debit", int64(1), num("-300"), num("1150"), num("850"), ts(repoNow)).
			AddRow("01B", "deposit:1:k", "deposit", int64(1), num("25"), num("850"), num("875"), ts(repoNow)))

	entries, err := NewEntryRepository(mockPool).ListByProfile(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.EntryTransferDebit, entries[0].Kind)
	assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("-300")))
	assert.Equal(t, domain.EntryDeposit, entries[1].Kind)
	assert.True(t, entries[1].CurrentBalance.Equal(decimal.RequireFromString("875")))
}

func TestLedgerRepository(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE kind IN ('transfer_debit', 'transfer_credit')")).
		WillReturnRows(pgxmock.NewRows([]string{"net"}).AddRow(num("0")))
	mockPool.ExpectQuery(`JOIN LATERAL[\s\S]+ORDER BY le\.created_at DESC, le\.id DESC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "balance", "current_balance"}).
			AddRow(int64(5), num("460"), num("450")))

	repo := NewLedgerRepository(mockPool)
	ctx := context.Background()

	net, err := repo.SumTransferEntries(ctx)
	require.NoError(t, err)
	assert.True(t, net.IsZero())

	drift, err := repo.ListBalanceDrift(ctx)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, int64(5), drift[0].ProfileID)
	assert.True(t, drift[0].Balance.Sub(drift[0].EntryBalance).Equal(decimal.RequireFromString("10")))

	assertExpectations(t, mockPool)
}
