package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/RMahshie/audiogram/internal/render"
)

// Metrics provides observability for the audiogram pipeline.
type Metrics struct {
	// Full fetch-to-draw latency
	RenderLatency prometheus.Histogram

	// Render outcomes: ok, fetch_error, no_data, surface_missing, error
	RenderOutcome *prometheus.CounterVec

	// Record cache lookups: hit, miss, error
	CacheLookups *prometheus.CounterVec
}

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "audiogram_live_charts",
		Help: "Chart instances created and not yet destroyed",
	}, func() float64 { return float64(render.LiveCharts()) })

	return &Metrics{
		RenderLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "audiogram_render_duration_seconds",
			Help:    "Duration of the fetch, normalize, compose and draw pipeline",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		RenderOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "audiogram_render_outcomes_total",
			Help: "Total render attempts by outcome",
		}, []string{"outcome"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "audiogram_record_cache_lookups_total",
			Help: "Threshold record cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveRender records a render duration and its outcome.
func (m *Metrics) ObserveRender(outcome string, d time.Duration) {
	if m != nil {
		m.RenderLatency.Observe(d.Seconds())
		m.RenderOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementCacheLookup records a record cache lookup result.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}
