package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the fixed side a profile plays in contracts.
type Role string

const (
	RoleClient     Role = "client"
	RoleContractor Role = "contractor"
)

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleContractor
}

// Profile represents a marketplace account holding a balance.
type Profile struct {
	ID         int64
	FirstName  string
	LastName   string
	Profession string
	Balance    decimal.Decimal
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsClient reports whether the profile acts as a client.
func (p *Profile) IsClient() bool {
	return p.Role == RoleClient
}

// ValidateDebit checks the profile can pay amount without going negative.
func (p *Profile) ValidateDebit(amount decimal.Decimal) error {
	if p.Balance.LessThan(amount) {
		return InsufficientFunds("profile %d balance %s is below %s", p.ID, p.Balance.StringFixed(2), amount.StringFixed(2))
	}

	return nil
}

// ApplyDebit returns new balance after debit.
func (p *Profile) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return p.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (p *Profile) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return p.Balance.Add(amount)
}
