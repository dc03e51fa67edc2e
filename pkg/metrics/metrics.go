package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP 指标
var (
	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mis_http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mis_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mis_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// 业务指标
var (
	AuditWriteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mis_audit_write_failures_total",
			Help: "Audit log entries dropped after exhausting retries.",
		},
		[]string{"entity_type", "action"},
	)

	DashboardObservers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mis_dashboard_observers",
		Help: "Currently connected dashboard observers.",
	})
)

var registerOnce sync.Once

// Init 将指标注册到默认注册表，重复调用无副作用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPInFlight,
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AuditWriteFailures,
			DashboardObservers,
		)
	})
}

// Handler Prometheus 抓取端点
func Handler() http.Handler {
	return promhttp.Handler()
}
