package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/domain"
)

// NopMetrics discards observations.
type NopMetrics struct{}

func (NopMetrics) ObservePayment(string, decimal.Decimal)  {}
func (NopMetrics) ObserveDeposit(string, decimal.Decimal)  {}
func (NopMetrics) ObserveTransfer(string, decimal.Decimal) {}

// outcomeOf maps an operation error to a metrics label.
func outcomeOf(err error) string {
	if err == nil {
		return OutcomeOK
	}

	if kind := domain.KindOf(err); kind != "" {
		return string(kind)
	}

	return OutcomeInternal
}
