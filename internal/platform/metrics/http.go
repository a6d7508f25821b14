package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	handler  gin.HandlerFunc
}

// NewHTTPMetrics registers the HTTP metrics on the provided registry.
func NewHTTPMetrics(reg *prometheus.Registry) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)

	return &HTTPMetrics{
		requests: requests,
		duration: duration,
		handler:  gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
	}
}

// Middleware observes every request that passes through it.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || m.requests == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := normalizeRoute(c.FullPath())
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus exposition format.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return m.handler
}

// Enabled reports whether the metrics are backed by a registry.
func (m *HTTPMetrics) Enabled() bool {
	return m != nil && m.requests != nil
}

func normalizeRoute(route string) string {
	if route == "" {
		return "unmatched"
	}
	return route
}
