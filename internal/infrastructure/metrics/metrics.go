package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	EntriesInserted *prometheus.CounterVec
	EntriesDeleted  *prometheus.CounterVec
	EntriesRejected *prometheus.CounterVec
	InsertDuration  prometheus.Histogram
	CascadeLength   prometheus.Histogram

	// Directory cache metrics
	DirectoryCacheHits   prometheus.Counter
	DirectoryCacheMisses prometheus.Counter

	// Batch query metrics
	BatchQueries *prometheus.CounterVec

	// Database metrics
	DBErrors *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesInserted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_entries_inserted_total",
				Help: "Total number of ledger entries inserted",
			},
			[]string{"ledger", "activity"},
		),
		EntriesDeleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_entries_deleted_total",
				Help: "Total number of ledger entries deleted",
			},
			[]string{"ledger"},
		),
		EntriesRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_entries_rejected_total",
				Help: "Total number of rejected writes by reason",
			},
			[]string{"ledger", "reason"},
		),
		InsertDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockledger_insert_duration_seconds",
			Help:    "Duration of ledger insert operations",
			Buckets: prometheus.DefBuckets,
		}),
		CascadeLength: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockledger_cascade_entries",
			Help:    "Number of stored balances rewritten per cascade recomputation",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),

		DirectoryCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_directory_cache_hits_total",
			Help: "Total item directory cache hits",
		}),
		DirectoryCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_directory_cache_misses_total",
			Help: "Total item directory cache misses",
		}),

		BatchQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_batch_queries_total",
				Help: "Total batch query operations",
			},
			[]string{"ledger", "operation"},
		),

		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
	}
}
