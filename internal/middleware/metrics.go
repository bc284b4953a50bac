package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MetricRequests counts HTTP requests by route pattern, method and status.
	MetricRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devpalette_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// MetricDuration tracks request latency by route pattern.
	MetricDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devpalette_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route"})

	// MetricRateLimited counts requests rejected by RateLimit, by route.
	MetricRateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devpalette_rate_limited_total",
		Help: "Total requests rejected by the rate limiter",
	}, []string{"route"})
)

// Metrics returns middleware recording request count and latency. Routes are
// labeled by their registered pattern (e.g. /api/v1/colors/:id), never the
// raw path, to keep label cardinality bounded.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			route := c.Path()
			if route == "" || errors.Is(err, echo.ErrNotFound) {
				route = "unmatched"
			}
			if err != nil {
				c.Error(err)
			}
			status := strconv.Itoa(c.Response().Status)

			MetricRequests.WithLabelValues(route, c.Request().Method, status).Inc()
			MetricDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
