package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuditEntries counts audit records committed together with their mutation.
	AuditEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_audit_entries_total",
		Help: "Audit log entries written, by action type and model",
	}, []string{"action", "model"})

	// AuditWriteFailures counts audit appends that failed and rolled back their mutation.
	AuditWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_audit_write_failures_total",
		Help: "Audit log writes that failed, by model",
	}, []string{"model"})

	// HTTPRequests counts handled requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postboard_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthFailures counts requests rejected by the auth gate.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_auth_failures_total",
		Help: "Requests rejected by the auth gate, by reason",
	}, []string{"reason"})
)

// IncAuditEntry records a committed audit entry.
func IncAuditEntry(action, model string) {
	AuditEntries.WithLabelValues(action, model).Inc()
}

// IncAuditFailure records a failed audit write.
func IncAuditFailure(model string) {
	AuditWriteFailures.WithLabelValues(model).Inc()
}

// IncAuthFailure records an auth gate rejection.
func IncAuthFailure(reason string) {
	AuthFailures.WithLabelValues(reason).Inc()
}
