package blobstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics makes best-effort blob deletion observable. The store swallows
// deletion failures, so these counters are the only place a caller or a test
// can see how many deletes were attempted and how many failed.
type Metrics struct {
	DeleteAttempts prometheus.Counter
	DeleteFailures prometheus.Counter
	OrphansRemoved prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DeleteAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "decora_blobstore_delete_attempts_total",
			Help: "Blob deletions attempted, including already-missing files.",
		}),
		DeleteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "decora_blobstore_delete_failures_total",
			Help: "Blob deletions that failed and were swallowed.",
		}),
		OrphansRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "decora_blobstore_orphans_removed_total",
			Help: "Unreferenced blob files removed by garbage collection.",
		}),
	}
}
