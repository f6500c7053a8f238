// Package metrics exposes Prometheus collectors for the HTTP layer and the
// application scoring pipeline.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careers_http_requests_total",
			Help: "Total HTTP requests by route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "careers_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ApplicationsEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careers_applications_evaluated_total",
			Help: "Applications scored at submission, by automatic decision",
		},
		[]string{"decision"},
	)

	ApplicationAccuracy = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "careers_application_accuracy",
			Help:    "Distribution of application accuracy percentages",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	ContentFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careers_content_fallbacks_total",
			Help: "Generated-content requests answered with fallback text",
		},
		[]string{"prompt"},
	)
)

// ObserveRequest records one served request.
func ObserveRequest(method, route string, status int, seconds float64) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveEvaluation records the outcome of an automatic evaluation.
func ObserveEvaluation(decision string, accuracy int) {
	ApplicationsEvaluated.WithLabelValues(decision).Inc()
	ApplicationAccuracy.Observe(float64(accuracy))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
