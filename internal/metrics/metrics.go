// Package metrics provides the centralized Prometheus metrics registry for backtests and ingestion.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "courtside"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by status",
	}, []string{"status"})
	MatchupsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "matchups_skipped_total",
		Help:      "Total number of matchups dropped before training by reason",
	}, []string{"reason"})
	TrainingRoundsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "training_rounds_total",
		Help:      "Total number of boosting rounds fitted",
	})
	DataSourceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "datasource_requests_total",
		Help:      "Total number of stats provider requests by outcome",
	}, []string{"outcome"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	})
)

// Gauge metrics
var (
	BacktestAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "backtest_accuracy",
		Help:      "Test partition accuracy of the latest backtest per season",
	}, []string{"season"})
	BacktestHighConfidenceAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "backtest_high_confidence_accuracy",
		Help:      "High-confidence accuracy of the latest backtest per season",
	}, []string{"season"})
	SnapshotGames = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "snapshot_games",
		Help:      "Number of game records in the latest snapshot per season",
	}, []string{"season"})
)

// Histogram metrics
var (
	FeatureExtractionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "feature_extraction_duration_seconds",
		Help:      "Duration of feature extraction over a matchup set in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "training_duration_seconds",
		Help:      "Duration of classifier training in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(MatchupsSkippedTotal)
		registry.MustRegister(TrainingRoundsTotal)
		registry.MustRegister(DataSourceRequestsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(BacktestAccuracy)
		registry.MustRegister(BacktestHighConfidenceAccuracy)
		registry.MustRegister(SnapshotGames)

		// Register histogram metrics
		registry.MustRegister(FeatureExtractionDuration)
		registry.MustRegister(TrainingDuration)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBacktestRun records a finished backtest run.
func RecordBacktestRun(status string, durationSeconds float64) {
	BacktestRunsTotal.WithLabelValues(status).Inc()
	BacktestDuration.Observe(durationSeconds)
}

// RecordBacktestAccuracy updates the per-season accuracy gauges.
func RecordBacktestAccuracy(season string, accuracy, highConfidenceAccuracy float64) {
	BacktestAccuracy.WithLabelValues(season).Set(accuracy)
	BacktestHighConfidenceAccuracy.WithLabelValues(season).Set(highConfidenceAccuracy)
}

// RecordMatchupSkipped records a matchup dropped before training.
func RecordMatchupSkipped(reason string) {
	MatchupsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordFeatureExtraction records the duration of an extraction pass.
func RecordFeatureExtraction(durationSeconds float64) {
	FeatureExtractionDuration.Observe(durationSeconds)
}

// RecordTraining records a finished training call.
func RecordTraining(rounds int, durationSeconds float64) {
	TrainingRoundsTotal.Add(float64(rounds))
	TrainingDuration.Observe(durationSeconds)
}

// RecordDataSourceRequest records a provider request outcome.
func RecordDataSourceRequest(outcome string) {
	DataSourceRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// UpdateSnapshotGames updates the snapshot size gauge.
func UpdateSnapshotGames(season string, count int) {
	SnapshotGames.WithLabelValues(season).Set(float64(count))
}
