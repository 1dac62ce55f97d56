package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Prometheus Metrics ─────────────────────────────────────────────────────

var (
	scoringTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorewise_scoring_requests_total",
		Help: "Completed scoring requests.",
	})

	predictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorewise_growth_predictions_total",
		Help: "Completed growth projection requests.",
	})

	scoringErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorewise_scoring_errors_total",
		Help: "Scoring requests aborted by a model or scaler failure.",
	})

	scoreDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scorewise_credit_score",
		Help:    "Distribution of computed credit scores.",
		Buckets: prometheus.LinearBuckets(550, 37, 11), // 550..920
	})

	extractDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scorewise_feature_extraction_seconds",
		Help:    "Wall time of feature extraction per request.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)
