package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics tracks the REST API request load.
type HTTPMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	inFlight        prometheus.Gauge
}

// NewHTTPMetrics creates Prometheus-backed HTTP metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewHTTPMetrics() *HTTPMetrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &HTTPMetrics{
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dittodrive_http_request_duration_seconds",
				Help:    "HTTP request duration by route and method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittodrive_http_requests_total",
				Help: "Total HTTP requests by route, method, and status code",
			},
			[]string{"route", "method", "status"},
		),
		inFlight: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "dittodrive_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
	}
}

// RecordRequest records one completed request.
func (m *HTTPMetrics) RecordRequest(route, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
	m.requestsTotal.WithLabelValues(route, method, status).Inc()
}

// RequestStarted marks a request in flight; the returned func marks it done.
func (m *HTTPMetrics) RequestStarted() func() {
	if m == nil {
		return func() {}
	}
	m.inFlight.Inc()
	return m.inFlight.Dec
}

// DriveMetrics tracks domain-level drive activity.
type DriveMetrics struct {
	fileOps       *prometheus.CounterVec
	quotaDenials  prometheus.Counter
	bytesAdmitted prometheus.Counter
}

// NewDriveMetrics creates Prometheus-backed drive metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewDriveMetrics() *DriveMetrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &DriveMetrics{
		fileOps: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittodrive_file_operations_total",
				Help: "Total file operations by kind",
			},
			[]string{"operation"}, // "upload", "trash", "restore", "purge", "share", "star"
		),
		quotaDenials: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dittodrive_quota_denials_total",
				Help: "Total uploads denied by the quota check",
			},
		),
		bytesAdmitted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dittodrive_bytes_admitted_total",
				Help: "Total bytes admitted through confirmed uploads",
			},
		),
	}
}

// RecordFileOperation counts one domain operation.
func (m *DriveMetrics) RecordFileOperation(operation string) {
	if m == nil {
		return
	}
	m.fileOps.WithLabelValues(operation).Inc()
}

// RecordQuotaDenial counts one rejected upload.
func (m *DriveMetrics) RecordQuotaDenial() {
	if m == nil {
		return
	}
	m.quotaDenials.Inc()
}

// RecordBytesAdmitted counts bytes of a confirmed upload.
func (m *DriveMetrics) RecordBytesAdmitted(n int64) {
	if m == nil {
		return
	}
	m.bytesAdmitted.Add(float64(n))
}
