package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind tells how a balance moved.
type EntryKind string

const (
	EntryTransferDebit  EntryKind = "transfer_debit"
	EntryTransferCredit EntryKind = "transfer_credit"
	EntryDeposit        EntryKind = "deposit"
)

// Entry records a single balance mutation on a profile. Amount is signed:
// debits are negative.
type Entry struct {
	CreatedAt       time.Time
	ID              string
	ReferenceID     string
	Kind            EntryKind
	ProfileID       int64
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
}
