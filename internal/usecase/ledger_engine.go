package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/domain"
)

// LedgerEngine performs balance mutations inside a caller-owned
// transaction. It is the only component that writes profile balances.
type LedgerEngine struct {
	profileRepo ProfileRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	clock       Clock
}

// NewLedgerEngine creates a new LedgerEngine.
func NewLedgerEngine(profileRepo ProfileRepository, entryRepo EntryRepository, idGen IDGenerator, clock Clock) *LedgerEngine {
	return &LedgerEngine{
		profileRepo: profileRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		clock:       clock,
	}
}

// TransferResult holds balances after a transfer.
type TransferResult struct {
	Reference   string
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
}

// Transfer moves amount from one profile to another. An empty reference
// gets a generated one; both entries share it.
func (e *LedgerEngine) Transfer(ctx context.Context, tx Transaction, fromID, toID int64, amount decimal.Decimal, reference string) (*TransferResult, error) {
	if fromID == toID {
		return nil, domain.Validation("cannot transfer from profile %d to itself", fromID)
	}

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	// Lock in ascending id order (DEADLOCK PREVENTION)
	ids := []int64{fromID, toID}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	profiles, err := e.profileRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	from, to := byID[fromID], byID[toID]
	if from == nil {
		return nil, domain.NotFound("profile %d not found", fromID)
	}
	if to == nil {
		return nil, domain.NotFound("profile %d not found", toID)
	}

	if err := from.ValidateDebit(amount); err != nil {
		return nil, err
	}

	if reference == "" {
		reference = "transfer:" + e.idGen.Generate()
	}

	fromBalance, err := e.apply(ctx, tx, from, amount.Neg(), domain.EntryTransferDebit, reference)
	if err != nil {
		return nil, err
	}

	toBalance, err := e.apply(ctx, tx, to, amount, domain.EntryTransferCredit, reference)
	if err != nil {
		return nil, err
	}

	return &TransferResult{
		Reference:   reference,
		FromBalance: fromBalance,
		ToBalance:   toBalance,
	}, nil
}

// Credit adds external funds to a single profile.
func (e *LedgerEngine) Credit(ctx context.Context, tx Transaction, profileID int64, amount decimal.Decimal, reference string) (decimal.Decimal, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	profile, err := e.profileRepo.GetByIDForUpdate(ctx, tx, profileID)
	if err != nil {
		return decimal.Zero, err
	}

	if reference == "" {
		reference = "deposit:" + e.idGen.Generate()
	}

	return e.apply(ctx, tx, profile, amount, domain.EntryDeposit, reference)
}

// apply writes one entry and the new balance for a signed delta.
func (e *LedgerEngine) apply(
	ctx context.Context,
	tx Transaction,
	profile *domain.Profile,
	delta decimal.Decimal,
	kind domain.EntryKind,
	reference string,
) (decimal.Decimal, error) {
	now := e.clock.Now()
	newBalance := profile.ApplyCredit(delta)

	if newBalance.IsNegative() {
		return decimal.Zero, domain.InsufficientFunds("profile %d cannot go below zero", profile.ID)
	}

	entry := &domain.Entry{
		ID:              e.idGen.Generate(),
		ProfileID:       profile.ID,
		ReferenceID:     reference,
		Kind:            kind,
		Amount:          delta,
		PreviousBalance: profile.Balance,
		CurrentBalance:  newBalance,
		CreatedAt:       now,
	}

	if err := e.entryRepo.Create(ctx, tx, entry); err != nil {
		return decimal.Zero, err
	}

	if err := e.profileRepo.UpdateBalance(ctx, tx, profile.ID, newBalance, now); err != nil {
		return decimal.Zero, err
	}

	profile.Balance = newBalance
	profile.UpdatedAt = now

	return newBalance, nil
}
