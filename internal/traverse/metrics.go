package traverse

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the traversal engine.
type Metrics struct {
	TraversalsTotal    *prometheus.CounterVec
	FilesStreamedTotal prometheus.Counter
	WarningsTotal      prometheus.Counter
	TraversalDuration  prometheus.Histogram
}

// NewMetrics creates and registers the traversal metrics. Registration runs
// once per process; later calls return the same set, which keeps repeated
// construction from panicking on duplicate registration.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			TraversalsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "treestream_traversals_total",
					Help: "Total number of tree traversals by outcome",
				},
				[]string{"outcome"}, // "complete", "error", "cancelled" or "panic"
			),

			FilesStreamedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "treestream_files_streamed_total",
					Help: "Total number of file entries streamed",
				},
			),

			WarningsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "treestream_warnings_total",
					Help: "Total number of warnings emitted during traversals",
				},
			),

			TraversalDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "treestream_traversal_duration_seconds",
					Help:    "Duration of finished tree traversals in seconds",
					Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
				},
			),
		}
	})

	return globalMetrics
}

// RecordTraversal records one finished traversal with its outcome.
func (m *Metrics) RecordTraversal(outcome string, d time.Duration) {
	m.TraversalsTotal.WithLabelValues(outcome).Inc()
	m.TraversalDuration.Observe(d.Seconds())
}

// RecordFile counts one streamed file entry.
func (m *Metrics) RecordFile() {
	m.FilesStreamedTotal.Inc()
}

// RecordWarning counts one emitted warning.
func (m *Metrics) RecordWarning() {
	m.WarningsTotal.Inc()
}
