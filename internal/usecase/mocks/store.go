package mocks

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/domain"
	"github.com/iho/jobledger/internal/usecase"
)

// ErrTxClosed is returned when a finished transaction is committed again.
var ErrTxClosed = errors.New("transaction already closed")

type memState struct {
	profiles  map[int64]domain.Profile
	contracts map[int64]domain.Contract
	jobs      map[int64]domain.Job
	entries   []domain.Entry
}

func (s *memState) clone() *memState {
	c := &memState{
		profiles:  make(map[int64]domain.Profile, len(s.profiles)),
		contracts: make(map[int64]domain.Contract, len(s.contracts)),
		jobs:      make(map[int64]domain.Job, len(s.jobs)),
		entries:   append([]domain.Entry(nil), s.entries...),
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.contracts {
		c.contracts[k] = v
	}
	for k, v := range s.jobs {
		c.jobs[k] = v
	}

	return c
}

// Store is an in-memory transactional store implementing the usecase
// repositories and TransactionManager. A transaction works on a private
// copy that replaces the committed state on Commit. Only one transaction
// runs at a time, so every transaction is serializable.
type Store struct {
	mu        sync.RWMutex
	committed *memState
	writer    chan struct{}

	failures map[string]*failure

	Commits   int
	Rollbacks int
	Begins    []usecase.IsolationLevel
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		committed: &memState{
			profiles:  map[int64]domain.Profile{},
			contracts: map[int64]domain.Contract{},
			jobs:      map[int64]domain.Job{},
		},
		writer:   make(chan struct{}, 1),
		failures: map[string]*failure{},
	}
}

// AddProfile seeds a profile.
func (s *Store) AddProfile(p domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.profiles[p.ID] = p
}

// AddContract seeds a contract.
func (s *Store) AddContract(c domain.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.contracts[c.ID] = c
}

// AddJob seeds a job.
func (s *Store) AddJob(j domain.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.jobs[j.ID] = j
}

// Profile returns the committed profile.
func (s *Store) Profile(id int64) domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed.profiles[id]
}

// Job returns the committed job.
func (s *Store) Job(id int64) domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed.jobs[id]
}

// Entries returns the committed entries.
func (s *Store) Entries() []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Entry(nil), s.committed.entries...)
}

type failure struct {
	n   int
	err error
}

// FailOnNth makes the nth call of the named repository method return err.
// Method names: GetProfile, GetProfiles, UpdateBalance, MarkPaid, CreateEntry.
func (s *Store) FailOnNth(method string, n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = &failure{n: n, err: err}
}

func (s *Store) fail(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.failures[method]
	if !ok {
		return nil
	}

	f.n--
	if f.n > 0 {
		return nil
	}
	delete(s.failures, method)

	return f.err
}

// Tx is a Store transaction.
type Tx struct {
	store *Store
	state *memState
	done  bool
}

// Begin waits for the running transaction to finish and starts a new one.
func (s *Store) Begin(ctx context.Context, iso usecase.IsolationLevel) (usecase.Transaction, error) {
	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Begins = append(s.Begins, iso)

	return &Tx{store: s, state: s.committed.clone()}, nil
}

// Commit publishes the transaction's state.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxClosed
	}
	t.done = true

	t.store.mu.Lock()
	t.store.committed = t.state
	t.store.Commits++
	t.store.mu.Unlock()

	<-t.store.writer

	return nil
}

// Rollback discards the transaction's state. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	t.store.mu.Lock()
	t.store.Rollbacks++
	t.store.mu.Unlock()

	<-t.store.writer

	return nil
}

// read runs fn against the transaction state, or the committed state when
// tx is nil.
func (s *Store) read(tx usecase.Transaction, fn func(*memState)) {
	if t, ok := tx.(*Tx); ok && t != nil {
		fn(t.state)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.committed)
}

func (s *Store) write(tx usecase.Transaction, fn func(*memState)) error {
	t, ok := tx.(*Tx)
	if !ok || t == nil || t.done {
		return ErrTxClosed
	}

	fn(t.state)

	return nil
}

// GetByID implements usecase.ProfileRepository.
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	return s.GetByIDForUpdate(ctx, nil, id)
}

// GetByIDForUpdate implements usecase.ProfileRepository.
func (s *Store) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Profile, error) {
	if err := s.fail("GetProfile"); err != nil {
		return nil, err
	}

	var (
		p  domain.Profile
		ok bool
	)
	s.read(tx, func(st *memState) { p, ok = st.profiles[id] })
	if !ok {
		return nil, domain.NotFound("profile %d not found", id)
	}

	return &p, nil
}

// GetByIDsForUpdate implements usecase.ProfileRepository.
func (s *Store) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.Profile, error) {
	if err := s.fail("GetProfiles"); err != nil {
		return nil, err
	}

	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var out []*domain.Profile
	s.read(tx, func(st *memState) {
		for _, id := range sorted {
			if p, ok := st.profiles[id]; ok {
				out = append(out, &p)
			}
		}
	})

	return out, nil
}

// UpdateBalance implements usecase.ProfileRepository.
func (s *Store) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	if err := s.fail("UpdateBalance"); err != nil {
		return err
	}

	return s.write(tx, func(st *memState) {
		p := st.profiles[id]
		p.Balance = balance
		p.UpdatedAt = updatedAt
		st.profiles[id] = p
	})
}

// ContractRepository returns a view of the store as usecase.ContractRepository.
func (s *Store) ContractRepository() usecase.ContractRepository {
	return contractView{s}
}

type contractView struct{ s *Store }

func (v contractView) GetByID(ctx context.Context, id int64) (*domain.Contract, error) {
	var (
		c  domain.Contract
		ok bool
	)
	v.s.read(nil, func(st *memState) { c, ok = st.contracts[id] })
	if !ok {
		return nil, domain.NotFound("contract %d not found", id)
	}

	return &c, nil
}

func (v contractView) ListActiveByProfile(ctx context.Context, profileID int64) ([]*domain.Contract, error) {
	var out []*domain.Contract
	v.s.read(nil, func(st *memState) {
		for _, c := range st.contracts {
			if c.HasParticipant(profileID) && c.Status != domain.ContractTerminated {
				c := c
				out = append(out, &c)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// GetWithContractForUpdate implements usecase.JobRepository.
func (s *Store) GetWithContractForUpdate(ctx context.Context, tx usecase.Transaction, jobID int64) (*domain.JobWithContract, error) {
	var (
		j        domain.Job
		c        domain.Contract
		jok, cok bool
	)
	s.read(tx, func(st *memState) {
		j, jok = st.jobs[jobID]
		c, cok = st.contracts[j.ContractID]
	})
	if !jok || !cok {
		return nil, domain.NotFound("job %d not found", jobID)
	}

	return &domain.JobWithContract{Job: &j, Contract: &c}, nil
}

// MarkPaid implements usecase.JobRepository.
func (s *Store) MarkPaid(ctx context.Context, tx usecase.Transaction, jobID int64, paidAt time.Time) (bool, error) {
	if err := s.fail("MarkPaid"); err != nil {
		return false, err
	}

	updated := false
	err := s.write(tx, func(st *memState) {
		j, ok := st.jobs[jobID]
		if !ok || j.Paid {
			return
		}
		j.Paid = true
		j.PaymentDate = &paidAt
		j.UpdatedAt = paidAt
		st.jobs[jobID] = j
		updated = true
	})

	return updated, err
}

// SumUnpaidByClient implements usecase.JobRepository.
func (s *Store) SumUnpaidByClient(ctx context.Context, tx usecase.Transaction, clientID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	s.read(tx, func(st *memState) {
		for _, j := range st.jobs {
			c, ok := st.contracts[j.ContractID]
			if !ok || j.Paid || c.ClientID != clientID || !c.IsActive() {
				continue
			}
			sum = sum.Add(j.Price)
		}
	})

	return sum, nil
}

// ListUnpaidByProfile implements usecase.JobRepository.
func (s *Store) ListUnpaidByProfile(ctx context.Context, profileID int64) ([]*domain.Job, error) {
	var out []*domain.Job
	s.read(nil, func(st *memState) {
		for _, j := range st.jobs {
			c, ok := st.contracts[j.ContractID]
			if !ok || j.Paid || !c.HasParticipant(profileID) || !c.IsActive() {
				continue
			}
			j := j
			out = append(out, &j)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// Create implements usecase.EntryRepository.
func (s *Store) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if err := s.fail("CreateEntry"); err != nil {
		return err
	}

	return s.write(tx, func(st *memState) {
		st.entries = append(st.entries, *entry)
	})
}

// ListByProfile implements usecase.EntryRepository.
func (s *Store) ListByProfile(ctx context.Context, profileID int64) ([]*domain.Entry, error) {
	var out []*domain.Entry
	s.read(nil, func(st *memState) {
		for _, e := range st.entries {
			if e.ProfileID == profileID {
				e := e
				out = append(out, &e)
			}
		}
	})

	return out, nil
}

// SumTransferEntries implements usecase.LedgerRepository.
func (s *Store) SumTransferEntries(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	s.read(nil, func(st *memState) {
		for _, e := range st.entries {
			if e.Kind != domain.EntryDeposit {
				sum = sum.Add(e.Amount)
			}
		}
	})

	return sum, nil
}

// ListBalanceDrift implements usecase.LedgerRepository.
func (s *Store) ListBalanceDrift(ctx context.Context) ([]usecase.BalanceDrift, error) {
	var out []usecase.BalanceDrift
	s.read(nil, func(st *memState) {
		latest := map[int64]decimal.Decimal{}
		for _, e := range st.entries {
			latest[e.ProfileID] = e.CurrentBalance
		}
		for id, bal := range latest {
			if p := st.profiles[id]; !p.Balance.Equal(bal) {
				out = append(out, usecase.BalanceDrift{ProfileID: id, Balance: p.Balance, EntryBalance: bal})
			}
		}
	})

	return out, nil
}

// SeqIDGenerator returns sequential ids.
type SeqIDGenerator struct {
	mu sync.Mutex
	n  int
}

// Generate implements usecase.IDGenerator.
func (g *SeqIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++

	return "id-" + strconv.Itoa(g.n)
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

// Now implements usecase.Clock.
func (c FixedClock) Now() time.Time {
	return c.T
}
