package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergyscan_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "allergyscan_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// LookupAttempts counts every call made to the product database
	LookupAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergyscan_product_lookup_attempts_total",
			Help: "Product lookup attempts by outcome (found, not_found, transient)",
		},
		[]string{"outcome"},
	)

	// LookupResults counts terminal lookup outcomes after retries
	LookupResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergyscan_product_lookup_results_total",
			Help: "Terminal product lookup outcomes after the retry policy",
		},
		[]string{"outcome"},
	)

	LookupCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergyscan_product_cache_total",
			Help: "Product cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	AllergenDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergyscan_allergen_detections_total",
			Help: "Allergens detected in scanned products",
		},
		[]string{"allergen"},
	)

	PersistenceWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergyscan_persistence_writes_total",
			Help: "Durable store writes by store and result",
		},
		[]string{"store", "result"},
	)

	ChatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergyscan_chat_turns_total",
			Help: "Chat turns by topic and result",
		},
		[]string{"topic", "result"},
	)

	CartSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "allergyscan_cart_items",
			Help: "Number of items currently in the cart",
		},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Instrument wraps a handler with request count and latency metrics
func Instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
