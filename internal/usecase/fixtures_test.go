package usecase_test

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/domain"
	"github.com/iho/jobledger/internal/usecase"
	"github.com/iho/jobledger/internal/usecase/mocks"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *mocks.Store
	metrics  *recordingMetrics
	engine   *usecase.LedgerEngine
	ledger   *usecase.LedgerUseCase
	payments *usecase.PaymentUseCase
	deposits *usecase.DepositUseCase
}

func newFixture(t *testing.T, opts ...usecase.DepositOption) *fixture {
	t.Helper()

	store := mocks.NewStore()
	clock := mocks.FixedClock{T: testNow}
	metrics := &recordingMetrics{}
	runner := usecase.NewTxRunner(store, nil, time.Second)
	engine := usecase.NewLedgerEngine(store, store, &mocks.SeqIDGenerator{}, clock)

	opts = append([]usecase.DepositOption{usecase.WithDepositMetrics(metrics)}, opts...)

	return &fixture{
		store:    store,
		metrics:  metrics,
		engine:   engine,
		ledger:   usecase.NewLedgerUseCase(runner, engine, metrics),
		payments: usecase.NewPaymentUseCase(runner, engine, store, clock, metrics),
		deposits: usecase.NewDepositUseCase(runner, engine, store, store, opts...),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) client(id int64, balance string) {
	f.store.AddProfile(domain.Profile{ID: id, FirstName: "Client", LastName: "Test", Profession: "Buyer", Role: domain.RoleClient, Balance: dec(balance)})
}

func (f *fixture) contractor(id int64, balance string) {
	f.store.AddProfile(domain.Profile{ID: id, FirstName: "Contractor", LastName: "Test", Profession: "Programmer", Role: domain.RoleContractor, Balance: dec(balance)})
}

func (f *fixture) contract(id, clientID, contractorID int64, status domain.ContractStatus) {
	f.store.AddContract(domain.Contract{ID: id, ClientID: clientID, ContractorID: contractorID, Status: status, Terms: "terms"})
}

func (f *fixture) job(id, contractID int64, price string, paid bool) {
	j := domain.Job{ID: id, ContractID: contractID, Description: "work", Price: dec(price), Paid: paid}
	if paid {
		at := testNow.Add(-time.Hour)
		j.PaymentDate = &at
	}
	f.store.AddJob(j)
}

type observation struct {
	op      string
	outcome string
	amount  decimal.Decimal
}

type recordingMetrics struct {
	mu  sync.Mutex
	obs []observation
}

func (m *recordingMetrics) record(op, outcome string, amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, observation{op: op, outcome: outcome, amount: amount})
}

func (m *recordingMetrics) ObservePayment(outcome string, amount decimal.Decimal) {
	m.record("payment", outcome, amount)
}

func (m *recordingMetrics) ObserveDeposit(outcome string, amount decimal.Decimal) {
	m.record("deposit", outcome, amount)
}

func (m *recordingMetrics) ObserveTransfer(outcome string, amount decimal.Decimal) {
	m.record("transfer", outcome, amount)
}

func (m *recordingMetrics) outcomes(op string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, o := range m.obs {
		if o.op == op {
			out = append(out, o.outcome)
		}
	}

	return out
}
