package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/usecase"
)

// Metrics holds all Prometheus metrics and implements usecase.MetricsRecorder.
type Metrics struct {
	registry *prometheus.Registry

	// Ledger operation metrics, labelled by outcome (ok or error kind)
	Payments    *prometheus.CounterVec
	Deposits    *prometheus.CounterVec
	Transfers   *prometheus.CounterVec
	MovedAmount *prometheus.HistogramVec

	// Database metrics
	StoreRetries prometheus.Counter
}

var _ usecase.MetricsRecorder = (*Metrics)(nil)

// New creates all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		Payments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobledger_payments_total",
				Help: "Total job payments by outcome",
			},
			[]string{"outcome"},
		),
		Deposits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobledger_deposits_total",
				Help: "Total deposit admissions by outcome",
			},
			[]string{"outcome"},
		),
		Transfers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobledger_transfers_total",
				Help: "Total direct fund transfers by outcome",
			},
			[]string{"outcome"},
		),
		MovedAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobledger_moved_amount",
				Help:    "Amounts moved by successful operations",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),

		StoreRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "jobledger_store_retries_total",
			Help: "Transactions restarted after a deadlock or serialization failure",
		}),
	}
}

// Registry returns the registry holding every metric.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePayment implements usecase.MetricsRecorder.
func (m *Metrics) ObservePayment(outcome string, amount decimal.Decimal) {
	m.observe(m.Payments, "payment", outcome, amount)
}

// ObserveDeposit implements usecase.MetricsRecorder.
func (m *Metrics) ObserveDeposit(outcome string, amount decimal.Decimal) {
	m.observe(m.Deposits, "deposit", outcome, amount)
}

// ObserveTransfer implements usecase.MetricsRecorder.
func (m *Metrics) ObserveTransfer(outcome string, amount decimal.Decimal) {
	m.observe(m.Transfers, "transfer", outcome, amount)
}

// IncStoreRetries counts one store retry.
func (m *Metrics) IncStoreRetries() {
	m.StoreRetries.Inc()
}

func (m *Metrics) observe(counter *prometheus.CounterVec, operation, outcome string, amount decimal.Decimal) {
	counter.WithLabelValues(outcome).Inc()

	if outcome == usecase.OutcomeOK {
		m.MovedAmount.WithLabelValues(operation).Observe(amount.InexactFloat64())
	}
}

// WriteTextfile writes all metrics in the text exposition format for the
// node_exporter textfile collector. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}

	return prometheus.WriteToTextfile(path, m.registry)
}
