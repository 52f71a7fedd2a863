// Package metrics exposes Prometheus collectors for the crawler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	crawlerPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_pages_total",
			Help: "Total number of pages crawled, labeled by domain and status class.",
		},
		[]string{"domain", "status"},
	)

	crawlerBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_bytes_total",
			Help: "Total number of bytes fetched, labeled by domain.",
		},
		[]string{"domain"},
	)

	crawlerFetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawler_fetch_duration_seconds",
			Help:    "Histogram of page fetch latencies, labeled by domain.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"domain"},
	)

	crawlerTrapsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_traps_total",
			Help: "Total number of trap detections, labeled by category.",
		},
		[]string{"category"},
	)

	crawlerWordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_words_total",
			Help: "Total number of content words recorded.",
		},
	)

	crawlerQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crawler_queue_depth",
			Help: "Current frontier backlog size.",
		},
	)

	crawlerActiveWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crawler_active_workers",
			Help: "Number of workers currently processing a page.",
		},
	)

	crawlerRateLimitDelaysSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawler_rate_limit_delays_seconds",
			Help:    "Histogram of politeness wait durations, labeled by host.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"host"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of status API requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of status API latencies, labeled by method and route.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "route"},
	)
)

// Handler returns the standard Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware is a chi middleware that records HTTP request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		ObserveHTTPRequest(r.Method, routePattern, ww.statusCode, time.Since(start))
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

// ObservePage records one crawled page. An empty domain is counted under
// "other".
func ObservePage(domain, statusClass string, byteLength int, duration time.Duration) {
	if domain == "" {
		domain = "other"
	}
	crawlerPagesTotal.WithLabelValues(domain, statusClass).Inc()
	if byteLength > 0 {
		crawlerBytesTotal.WithLabelValues(domain).Add(float64(byteLength))
	}
	if duration > 0 {
		crawlerFetchDurationSeconds.WithLabelValues(domain).Observe(duration.Seconds())
	}
}

// ObserveTrap increments the trap counter for the given category.
func ObserveTrap(category string) {
	crawlerTrapsTotal.WithLabelValues(category).Inc()
}

// AddWords adds to the cumulative content-word counter.
func AddWords(n int) {
	if n > 0 {
		crawlerWordsTotal.Add(float64(n))
	}
}

// SetQueueDepth records the frontier backlog size.
func SetQueueDepth(n int) {
	crawlerQueueDepth.Set(float64(n))
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	crawlerActiveWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	crawlerActiveWorkers.Dec()
}

// ObserveRateLimitDelay records the duration of a politeness wait.
func ObserveRateLimitDelay(host string, duration time.Duration) {
	if host == "" {
		host = "unknown"
	}
	crawlerRateLimitDelaysSeconds.WithLabelValues(host).Observe(duration.Seconds())
}

// ObserveHTTPRequest records one status API request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
