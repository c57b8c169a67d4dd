package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/domain"
)

// ReconciliationUseCase checks the ledger entries against stored balances.
type ReconciliationUseCase struct {
	profileRepo ProfileRepository
	entryRepo   EntryRepository
	ledgerRepo  LedgerRepository
	clock       Clock
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	profileRepo ProfileRepository,
	entryRepo EntryRepository,
	ledgerRepo LedgerRepository,
	clock Clock,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		profileRepo: profileRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
		clock:       clock,
	}
}

// ConservationReport is the outcome of a ledger-wide check.
type ConservationReport struct {
	TransferNet decimal.Decimal
	Drift       []BalanceDrift
	Consistent  bool
	CheckedAt   time.Time
}

// CheckConservation verifies that transfer entries net to zero and that
// every profile balance matches its latest entry.
func (uc *ReconciliationUseCase) CheckConservation(ctx context.Context) (*ConservationReport, error) {
	net, err := uc.ledgerRepo.SumTransferEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum transfer entries: %w", err)
	}

	drift, err := uc.ledgerRepo.ListBalanceDrift(ctx)
	if err != nil {
		return nil, fmt.Errorf("list balance drift: %w", err)
	}

	return &ConservationReport{
		TransferNet: net,
		Drift:       drift,
		Consistent:  net.IsZero() && len(drift) == 0,
		CheckedAt:   uc.clock.Now(),
	}, nil
}

// Statement is a profile with its ledger entries.
type Statement struct {
	Profile *domain.Profile
	Entries []*domain.Entry
}

// ProfileStatement returns a profile's entries, oldest first.
func (uc *ReconciliationUseCase) ProfileStatement(ctx context.Context, profileID int64) (*Statement, error) {
	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	return &Statement{Profile: profile, Entries: entries}, nil
}
