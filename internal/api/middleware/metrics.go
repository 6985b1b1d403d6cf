package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	requests, err := registerCollector(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptodb_http_requests_total",
		Help: "HTTP requests by path and status code",
	}, []string{"path", "status"}))
	if err != nil {
		return nil, err
	}

	duration, err := registerCollector(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cryptodb_http_request_duration_seconds",
		Help:    "Time taken to serve an HTTP request",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"}))
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

func registerCollector[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

// Metrics records every request under path, a fixed route label, so that
// arbitrary request paths cannot grow label cardinality.
func Metrics(m *HTTPMetrics, path string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		m.requests.WithLabelValues(path, strconv.Itoa(sw.statusCode())).Inc()
		m.duration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}
