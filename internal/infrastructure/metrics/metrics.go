package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsProcessed *prometheus.CounterVec
	TransactionsRejected  *prometheus.CounterVec
	ProcessDuration       prometheus.Histogram

	// Account metrics
	Accounts       prometheus.Gauge
	AccountsLocked prometheus.Gauge

	// Store metrics
	StoreRetries *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
// A nil reg registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnflow_transactions_total",
				Help: "Total transactions processed by type",
			},
			[]string{"type"},
		),
		TransactionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnflow_transactions_rejected_total",
				Help: "Total transactions rejected by type and reason",
			},
			[]string{"type", "reason"},
		),
		ProcessDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "txnflow_process_duration_seconds",
			Help:    "Duration of single transaction processing",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}),

		Accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txnflow_accounts",
			Help: "Number of accounts at the end of the run",
		}),
		AccountsLocked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txnflow_accounts_locked",
			Help: "Number of locked accounts at the end of the run",
		}),

		StoreRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txnflow_store_retries_total",
				Help: "Total retried store operations by backend",
			},
			[]string{"backend"},
		),
	}
}

// WriteTextfile writes every metric gathered by g to filename in the
// node_exporter textfile format.
func WriteTextfile(filename string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(filename, g)
}
