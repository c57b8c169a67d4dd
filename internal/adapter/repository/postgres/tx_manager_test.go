package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/jobledger/internal/usecase"
)

func TestTxManagerBeginIsolation(t *testing.T) {
	tests := []struct {
		name string
		iso  usecase.IsolationLevel
		want pgx.TxIsoLevel
	}{
		{name: "read committed", iso: usecase.ReadCommitted, want: pgx.ReadCommitted},
		{name: "serializable", iso: usecase.Serializable, want: pgx.Serializable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPool := newMockPool(t)
			mockPool.ExpectBeginTx(pgx.TxOptions{IsoLevel: tt.want})
			mockPool.ExpectCommit()

			tx, err := NewTxManager(mockPool).Begin(context.Background(), tt.iso)
			require.NoError(t, err)
			require.NoError(t, tx.Commit(context.Background()))

			assertExpectations(t, mockPool)
		})
	}
}

func TestTxManagerBeginError(t *testing.T) {
	mockPool := newMockPool(t)
	mockErr := errors.New("begin failed")
	mockPool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted}).WillReturnError(mockErr)

	tx, err := NewTxManager(mockPool).Begin(context.Background(), usecase.ReadCommitted)
	require.ErrorIs(t, err, mockErr)
	assert.Nil(t, tx)
}

func TestTxRollback(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mockPool.ExpectRollback()

	tx, err := NewTxManager(mockPool).Begin(context.Background(), usecase.ReadCommitted)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(context.Background()))

	assertExpectations(t, mockPool)
}

type foreignTx struct{}

func (foreignTx) Commit(context.Context) error   { return nil }
func (foreignTx) Rollback(context.Context) error { return nil }

func TestTxQueriesRejectsForeignTransaction(t *testing.T) {
	_, err := txQueries(foreignTx{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transaction")
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// beginTx opens a transaction on the mock pool through TxManager.
func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	tx, err := NewTxManager(pool).Begin(context.Background(), usecase.ReadCommitted)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return tx
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
