package auth

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "suggestbox_http_requests_total",
	Help: "HTTP requests by method, path and status code.",
}, []string{"method", "path", "code"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "suggestbox_http_request_duration_seconds",
	Help:    "HTTP request latency by method and path.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path"})

func observeRequest(method, path string, status int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
