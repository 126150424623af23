package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for ledger operations. HTTP
// request metrics live in the middleware and are registered separately.
type Metrics struct {
	// Posting metrics
	EntriesPosted    *prometheus.CounterVec
	EntryDuration    prometheus.Histogram
	EntryAmount      prometheus.Histogram
	EntryErrors      *prometheus.CounterVec
	DuplicateReplays prometheus.Counter

	// Reconciliation metrics
	ReconciliationRuns     prometheus.Counter
	BalanceDiscrepancies   prometheus.Counter
	BalanceRepairsApplied  prometheus.Counter
	ReconciliationDuration prometheus.Histogram

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	PublishErrors   prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesPosted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_entries_posted_total",
				Help: "Total number of ledger entries posted by kind",
			},
			[]string{"kind"},
		),
		EntryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_entry_duration_seconds",
			Help:    "Duration of entry posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		EntryAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_entry_amount_minor_units",
			Help:    "Posted entry amounts in minor units",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000, 100000000},
		}),
		EntryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_entry_errors_total",
				Help: "Total number of entry posting errors by type",
			},
			[]string{"error_type"},
		),
		DuplicateReplays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_duplicate_replays_total",
			Help: "Total number of entries replayed by reference",
		}),

		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconciliation_runs_total",
			Help: "Total number of account reconciliations",
		}),
		BalanceDiscrepancies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_discrepancies_total",
			Help: "Total number of balances that failed to reconcile",
		}),
		BalanceRepairsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_repairs_total",
			Help: "Total number of balances repaired from entry history",
		}),
		ReconciliationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_reconciliation_duration_seconds",
			Help:    "Duration of reconciliation checks",
			Buckets: prometheus.DefBuckets,
		}),

		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_publish_errors_total",
			Help: "Total outbox publish errors",
		}),
	}
}
