package strada

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus collectors for a router tree.
type metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	activeStreams prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strada",
			Name:      "requests_total",
			Help:      "Requests dispatched, by method and response status.",
		}, []string{"method", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "strada",
			Name:      "request_duration_seconds",
			Help:      "Dispatch latency from tokenization to response, excluding streaming.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		activeStreams: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "strada",
			Name:      "active_streams",
			Help:      "Streaming response bodies currently being drained.",
		}),
	}
}

func (m *metrics) observe(method string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
