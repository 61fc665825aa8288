package observe

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the relay pipeline.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamStatus   *prometheus.CounterVec
}

// NewMetrics registers the relay collectors with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chatrelay_requests_total",
			Help: "Upstream exchanges by model key and outcome.",
		}, []string{"model", "outcome"}),
		upstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatrelay_upstream_duration_seconds",
			Help:    "Upstream exchange duration by model key.",
			Buckets: prometheus.DefBuckets,
		}, []string{"model"}),
		upstreamStatus: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chatrelay_upstream_responses_total",
			Help: "Upstream HTTP responses by status code.",
		}, []string{"status"}),
	}
}

func (m *Metrics) record(modelKey, outcome string, status int, seconds float64) {
	m.requestsTotal.WithLabelValues(modelKey, outcome).Inc()
	m.upstreamDuration.WithLabelValues(modelKey).Observe(seconds)
	if status != 0 {
		m.upstreamStatus.WithLabelValues(strconv.Itoa(status)).Inc()
	}
}
