// Package metrics holds the prometheus instruments for the prediction API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all service metrics.
type Registry struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	PredictionTotal  *prometheus.CounterVec
	ConfidenceScores prometheus.Histogram
	DegradedState    prometheus.Gauge
}

// NewRegistry registers the service metrics on the given registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		RequestCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "frd_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "frd_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		PredictionTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "frd_predictions_total",
			Help: "Predictions by outcome (fraud, legitimate, error).",
		}, []string{"outcome"}),

		ConfidenceScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "frd_confidence_score",
			Help:    "Distribution of returned fraud probabilities.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),

		DegradedState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "frd_degraded",
			Help: "1 when model or scaler artifacts are not loaded.",
		}),
	}
}
