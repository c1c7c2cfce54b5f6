// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for AuthAttempts.
const (
	OutcomeSuccess            = "success"
	OutcomeValidation         = "validation_failed"
	OutcomeDuplicate          = "duplicate"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeRoleMismatch       = "role_mismatch"
	OutcomeError              = "error"
)

// AuthAttempts counts register and login attempts by result.
var AuthAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nirmaan_auth_attempts_total",
		Help: "Total number of register and login attempts",
	},
	[]string{"op", "outcome"},
)

// RequestDuration is the latency of HTTP requests, labelled by route pattern.
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "nirmaan_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// NewRegistry returns a registry with the package collectors plus the Go and
// process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	RegisterMetrics(reg)
	return reg
}

// RegisterMetrics registers the package collectors with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
	reg.MustRegister(RequestDuration)
}

// Handler serves the text exposition format for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// RecordAuthAttempt increments AuthAttempts. op is "register" or "login".
func RecordAuthAttempt(op, outcome string) {
	AuthAttempts.WithLabelValues(op, outcome).Inc()
}

// RecordRequest observes one finished HTTP request.
func RecordRequest(method, route, status string, d time.Duration) {
	RequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
