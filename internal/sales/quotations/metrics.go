package quotations

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for quotation rendering.
type Metrics struct {
	renders       *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	lockConflicts prometheus.Counter
}

// NewMetrics registers the quotation collectors against registerer, falling
// back to the default registerer when nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	renders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "protorq_quotation_renders_total",
		Help: "Quotation documents rendered, partitioned by operation and outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "protorq_quotation_render_duration_seconds",
		Help:    "Time spent laying out and converting a quotation to PDF.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "protorq_quotation_lock_conflicts_total",
		Help: "Generation requests rejected because the lead was already locked.",
	})
	registerer.MustRegister(renders, duration, conflicts)
	return &Metrics{renders: renders, duration: duration, lockConflicts: conflicts}
}

func (m *Metrics) observeRender(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.renders.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) lockConflict() {
	if m == nil {
		return
	}
	m.lockConflicts.Inc()
}
