package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "worksheesh"

// PrometheusRecorder implements Recorder on a dedicated Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	rateLimited       *prometheus.CounterVec
	sessionsRejected  *prometheus.CounterVec
	worksheetListSize prometheus.Histogram
	worksheetCreates  *prometheus.CounterVec
	accountDeletes    *prometheus.CounterVec
}

// NewPrometheus creates a Recorder backed by a fresh registry that also
// carries the Go runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"scope"}),
		sessionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "rejected_total",
			Help:      "Requests whose session could not be resolved.",
		}, []string{"reason"}),
		worksheetListSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worksheets",
			Name:      "list_size",
			Help:      "Number of worksheets returned per list request.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		worksheetCreates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worksheets",
			Name:      "create_total",
			Help:      "Worksheet create attempts by outcome.",
		}, []string{"status"}),
		accountDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "delete_total",
			Help:      "Account delete attempts by outcome.",
		}, []string{"status"}),
	}

	p.registry.MustRegister(
		p.httpRequests,
		p.httpDuration,
		p.rateLimited,
		p.sessionsRejected,
		p.worksheetListSize,
		p.worksheetCreates,
		p.accountDeletes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return p
}

// Gatherer returns the registry backing this recorder.
func (p *PrometheusRecorder) Gatherer() prometheus.Gatherer {
	return p.registry
}

// Handler returns an HTTP handler exposing the registry.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records a handled request.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncRateLimited increments the rate-limited counter.
func (p *PrometheusRecorder) IncRateLimited(scope string) {
	p.rateLimited.WithLabelValues(scope).Inc()
}

// IncSessionRejected increments the rejected-session counter.
func (p *PrometheusRecorder) IncSessionRejected(reason string) {
	p.sessionsRejected.WithLabelValues(reason).Inc()
}

// ObserveWorksheetListSize records the size of a worksheet list.
func (p *PrometheusRecorder) ObserveWorksheetListSize(size int) {
	p.worksheetListSize.Observe(float64(size))
}

// IncWorksheetCreate increments the create counter.
func (p *PrometheusRecorder) IncWorksheetCreate(status string) {
	p.worksheetCreates.WithLabelValues(status).Inc()
}

// IncAccountDeleted increments the successful delete counter.
func (p *PrometheusRecorder) IncAccountDeleted() {
	p.accountDeletes.WithLabelValues("success").Inc()
}

// IncAccountDeleteFailed increments the failed delete counter.
func (p *PrometheusRecorder) IncAccountDeleteFailed() {
	p.accountDeletes.WithLabelValues("failed").Inc()
}
