package domain

import (
	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MoneyScale = 2
	// MaxAmount is the exclusive upper bound of a NUMERIC(20,2) column.
	MaxAmount = "1000000000000000000"
)

// DepositLimitRatio is the share of outstanding unpaid work a client may
// deposit in one request.
var DepositLimitRatio = decimal.NewFromFloat(0.25)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ValidateAmount validates a transfer or deposit amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Validation("amount must be positive, got %s", amount.String())
	}

	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return Validation("amount %s has more than %d decimal places", amount.String(), MoneyScale)
	}

	if amount.GreaterThanOrEqual(maxAmount) {
		return Validation("amount must be below %s", MaxAmount)
	}

	return nil
}

// ValidateProfileID validates a profile identifier.
func ValidateProfileID(id int64) error {
	if id <= 0 {
		return Validation("invalid profile id %d", id)
	}

	return nil
}

// DepositLimit returns the largest deposit admitted against unpaidSum.
func DepositLimit(unpaidSum decimal.Decimal) decimal.Decimal {
	return unpaidSum.Mul(DepositLimitRatio)
}
