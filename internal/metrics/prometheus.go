package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the form relay service
type Metrics struct {
	// UDP datagram metrics
	DatagramsReceived prometheus.Counter
	DatagramsStored   prometheus.Counter
	DecodeErrors      prometheus.Counter
	AppendErrors      prometheus.Counter

	// Relay send metrics
	DatagramsSent prometheus.Counter
	SendErrors    prometheus.Counter
	PayloadSize   prometheus.Histogram

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// UDP datagram metrics
		DatagramsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_datagrams_received_total",
			Help: "Total number of UDP datagrams received",
		}),
		DatagramsStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_datagrams_stored_total",
			Help: "Total number of datagrams persisted to the log file",
		}),
		DecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_decode_errors_total",
			Help: "Total number of datagrams that failed to decode",
		}),
		AppendErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_append_errors_total",
			Help: "Total number of log append failures",
		}),

		// Relay send metrics
		DatagramsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_datagrams_sent_total",
			Help: "Total number of datagrams sent to the UDP back end",
		}),
		SendErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_send_errors_total",
			Help: "Total number of failed datagram sends",
		}),
		PayloadSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_payload_size_bytes",
			Help:    "Size of encoded submission payloads in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 2, 11), // 64B to 64KB
		}),

		// HTTP metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relay_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordDatagramReceived increments the datagrams received counter
func (m *Metrics) RecordDatagramReceived() {
	m.DatagramsReceived.Inc()
}

// RecordDatagramStored increments the datagrams stored counter
func (m *Metrics) RecordDatagramStored() {
	m.DatagramsStored.Inc()
}

// RecordDecodeError increments the decode errors counter
func (m *Metrics) RecordDecodeError() {
	m.DecodeErrors.Inc()
}

// RecordAppendError increments the append errors counter
func (m *Metrics) RecordAppendError() {
	m.AppendErrors.Inc()
}

// RecordDatagramSent records a successful send and its payload size
func (m *Metrics) RecordDatagramSent(sizeBytes int) {
	m.DatagramsSent.Inc()
	m.PayloadSize.Observe(float64(sizeBytes))
}

// RecordSendError increments the send errors counter
func (m *Metrics) RecordSendError() {
	m.SendErrors.Inc()
}

// RecordHTTPRequest records an HTTP request with its duration
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error by type
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
