package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the repair worker.
type Metrics struct {
	// Queue health metrics
	PendingDepth prometheus.Gauge
	ParkedDepth  prometheus.Gauge

	// Processing metrics
	AppliedTotal *prometheus.CounterVec
	Failures     *prometheus.CounterVec
	Parked       *prometheus.CounterVec
	BatchSize    prometheus.Histogram

	// Worker health metrics
	PollDuration prometheus.Histogram
	FetchErrors  prometheus.Counter
}

// New creates a new Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		PendingDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "hrcatalog_repair_pending_total",
			Help: "Current number of pending index repairs",
		}),
		ParkedDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "hrcatalog_repair_parked_total",
			Help: "Current number of index repairs that exhausted their attempts",
		}),
		AppliedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcatalog_repair_applied_total",
			Help: "Index repairs replayed successfully",
		}, []string{"kind"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcatalog_repair_failures_total",
			Help: "Index repair attempts that failed",
		}, []string{"kind"}),
		Parked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcatalog_repair_parked_entries_total",
			Help: "Index repairs parked after too many attempts",
		}, []string{"kind"}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hrcatalog_repair_batch_size",
			Help:    "Number of entries processed per batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		PollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hrcatalog_repair_poll_duration_seconds",
			Help:    "Time taken for each poll cycle",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		FetchErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "hrcatalog_repair_fetch_errors_total",
			Help: "Poll cycles that could not read the repair queue",
		}),
	}
}

func (m *Metrics) SetDepth(pending, parked int64) {
	m.PendingDepth.Set(float64(pending))
	m.ParkedDepth.Set(float64(parked))
}

func (m *Metrics) IncApplied(kind string) {
	m.AppliedTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncFailure(kind string) {
	m.Failures.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncParked(kind string) {
	m.Parked.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveBatchSize(size int) {
	m.BatchSize.Observe(float64(size))
}

func (m *Metrics) ObservePollDuration(durationSeconds float64) {
	m.PollDuration.Observe(durationSeconds)
}

func (m *Metrics) IncFetchErrors() {
	m.FetchErrors.Inc()
}
