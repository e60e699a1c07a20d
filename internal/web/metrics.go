package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the preview server.
type Metrics struct {
	RendersTotal   prometheus.Counter
	FailuresTotal  *prometheus.CounterVec
	RenderDuration prometheus.Histogram
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "missviz_renders_total",
			Help: "The total number of figures rendered",
		}),
		FailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "missviz_render_failures_total",
			Help: "The total number of failed pipeline runs",
		}, []string{"kind"}), // configuration, data_contract, internal, other
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "missviz_render_duration_seconds",
			Help:    "Time spent loading the flags file and rendering the figure",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncRendersTotal() {
	m.RendersTotal.Inc()
}

func (m *Metrics) IncFailuresTotal(kind string) {
	m.FailuresTotal.WithLabelValues(kind).Inc()
}
