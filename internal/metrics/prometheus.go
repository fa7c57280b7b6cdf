package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pricing metrics
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartretail_predictions_total",
			Help: "Total number of price predictions",
		},
		[]string{"tier", "status"}, // status: success|error
	)

	PredictionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartretail_prediction_duration_seconds",
			Help:    "Price prediction duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"tier"},
	)

	PredictionCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "smartretail_prediction_cache_hits_total",
			Help: "Price predictions served from cache",
		},
	)

	// Recommendation metrics
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartretail_recommendations_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"status"},
	)

	RecommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "smartretail_recommendation_duration_seconds",
			Help:    "Recommendation query duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	// HTTP metrics
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartretail_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"path", "method", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		PredictionsTotal,
		PredictionDuration,
		PredictionCacheHits,
		RecommendationsTotal,
		RecommendationDuration,
		HTTPRequestDuration,
	)
}

// Handler returns the prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest records one handled HTTP request
func ObserveHTTPRequest(path, method string, status int, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(path, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
