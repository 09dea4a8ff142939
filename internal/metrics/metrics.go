package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "job_portal_http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_portal_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "job_portal_backend_requests_total",
		Help: "Requests made to the entity backend.",
	}, []string{"collection", "op", "result"})

	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "job_portal_notifications_total",
		Help: "User-visible notifications raised by the portal.",
	}, []string{"level"})
)

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func ObserveBackend(collection, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	backendRequests.WithLabelValues(collection, op, result).Inc()
}

func ObserveNotification(level string) {
	notifications.WithLabelValues(level).Inc()
}
