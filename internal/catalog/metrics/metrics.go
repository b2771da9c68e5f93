package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the catalog engines. Every variant
// shares one instance; the kind label tells them apart.
type Metrics struct {
	StoreWrites     *prometheus.CounterVec
	IndexFailures   *prometheus.CounterVec
	RepairsEnqueued *prometheus.CounterVec
	SearchLatency   *prometheus.HistogramVec
	BreakerOpen     *prometheus.GaugeVec
	Reindexed       *prometheus.CounterVec
}

// New registers the catalog collectors with reg (the default registerer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		StoreWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcatalog_store_writes_total",
			Help: "Successful record store writes, labeled by kind and action",
		}, []string{"kind", "action"}),
		IndexFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcatalog_index_write_failures_total",
			Help: "Index writes that failed after the store write succeeded",
		}, []string{"kind", "op"}),
		RepairsEnqueued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcatalog_index_repairs_enqueued_total",
			Help: "Index repairs queued, labeled by kind and reason",
		}, []string{"kind", "reason"}),
		SearchLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrcatalog_search_latency_seconds",
			Help:    "Latency of full-text searches in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"kind"}),
		BreakerOpen: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hrcatalog_index_breaker_open",
			Help: "1 while the index circuit breaker of a kind is open",
		}, []string{"kind"}),
		Reindexed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcatalog_reindexed_records_total",
			Help: "Records written to the index by full re-syncs",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncStoreWrite(kind, action string) {
	if m == nil {
		return
	}
	m.StoreWrites.WithLabelValues(kind, action).Inc()
}

func (m *Metrics) IncIndexFailure(kind, op string) {
	if m == nil {
		return
	}
	m.IndexFailures.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) IncRepairEnqueued(kind, reason string) {
	if m == nil {
		return
	}
	m.RepairsEnqueued.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) ObserveSearch(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.SearchLatency.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) SetBreakerOpen(kind string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.BreakerOpen.WithLabelValues(kind).Set(v)
}

func (m *Metrics) AddReindexed(kind string, n int) {
	if m == nil {
		return
	}
	m.Reindexed.WithLabelValues(kind).Add(float64(n))
}
