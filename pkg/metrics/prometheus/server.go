// Package prometheus provides Prometheus-backed implementations of the
// metrics interfaces.
package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Roky360/fotogo-bakcend/pkg/metrics"
)

// serverMetrics is the Prometheus implementation of metrics.ServerMetrics.
type serverMetrics struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	connectionsAccepted prometheus.Counter
	connectionsRejected prometheus.Counter
	activeConnections   prometheus.Gauge
	authFailures        *prometheus.CounterVec
}

// NewServerMetrics creates a Prometheus-backed ServerMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewServerMetrics() metrics.ServerMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &serverMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fotogo_requests_total",
				Help: "Total number of requests by operation and status code",
			},
			[]string{"operation", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "fotogo_request_duration_milliseconds",
				Help: "Request processing duration in milliseconds",
				Buckets: []float64{
					5,     // 5ms - auth-only operations
					25,    // 25ms - document reads
					100,   // 100ms - sync computations
					500,   // 500ms - signed URL batches
					1000,  // 1s
					5000,  // 5s - image uploads
					30000, // 30s - large payloads
				},
			},
			[]string{"operation"},
		),
		connectionsAccepted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "fotogo_connections_accepted_total",
				Help: "Total number of accepted client connections",
			},
		),
		connectionsRejected: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "fotogo_connections_rejected_total",
				Help: "Total number of connections rejected at the admission limit",
			},
		),
		activeConnections: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "fotogo_active_connections",
				Help: "Current number of in-flight client connections",
			},
		),
		authFailures: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fotogo_auth_failures_total",
				Help: "Total number of authentication failures by kind",
			},
			[]string{"kind"},
		),
	}
}

func (m *serverMetrics) RecordRequest(operation string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(float64(duration.Milliseconds()))
}

func (m *serverMetrics) RecordConnectionAccepted() {
	m.connectionsAccepted.Inc()
}

func (m *serverMetrics) RecordConnectionRejected() {
	m.connectionsRejected.Inc()
}

func (m *serverMetrics) SetActiveConnections(count int64) {
	m.activeConnections.Set(float64(count))
}

func (m *serverMetrics) RecordAuthFailure(kind string) {
	m.authFailures.WithLabelValues(kind).Inc()
}
