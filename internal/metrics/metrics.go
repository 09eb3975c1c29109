// Package metrics provides the centralized Prometheus metrics registry for
// the value-bet engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ScansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "scans_total",
		Help:      "Total number of value scans executed",
	})
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "predictions_total",
		Help:      "Total number of fixture predictions computed",
	})
	PredictionsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "predictions_skipped_total",
		Help:      "Fixtures skipped during a scan, by reason",
	}, []string{"reason"})
	ValueBetsFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "value_bets_found_total",
		Help:      "Total number of value bets detected",
	})
	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled, by outcome",
	}, []string{"outcome"})
	NotificationsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "notifications_sent_total",
		Help:      "Total number of Telegram notifications sent",
	})
	ProviderErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "provider_errors_total",
		Help:      "Total number of provider request failures, by provider",
	}, []string{"provider"})
)

// Gauge metrics
var (
	LastScanSignals = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "valuebet",
		Name:      "last_scan_signals",
		Help:      "Number of value signals produced by the most recent scan",
	})
	PendingBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "valuebet",
		Name:      "pending_bets",
		Help:      "Number of stored bets awaiting settlement",
	})
	TrackedTeams = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "valuebet",
		Name:      "tracked_teams",
		Help:      "Number of teams with current ratings, by league",
	}, []string{"league"})
)

// Histogram metrics
var (
	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "valuebet",
		Name:      "scan_duration_seconds",
		Help:      "Duration of full scan runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
	})
	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "valuebet",
		Name:      "refresh_duration_seconds",
		Help:      "Duration of team statistics refreshes in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ScansTotal)
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionsSkippedTotal)
		registry.MustRegister(ValueBetsFoundTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(NotificationsSentTotal)
		registry.MustRegister(ProviderErrorsTotal)

		registry.MustRegister(LastScanSignals)
		registry.MustRegister(PendingBets)
		registry.MustRegister(TrackedTeams)

		registry.MustRegister(ScanDuration)
		registry.MustRegister(RefreshDuration)
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

// RecordScan records a completed scan run.
func RecordScan(durationSeconds float64, signals int) {
	ScansTotal.Inc()
	ScanDuration.Observe(durationSeconds)
	LastScanSignals.Set(float64(signals))
}

// RecordPrediction records a computed fixture prediction.
func RecordPrediction() {
	PredictionsTotal.Inc()
}

// RecordPredictionSkipped records a fixture skipped during a scan.
func RecordPredictionSkipped(reason string) {
	PredictionsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordValueBet records a detected value bet.
func RecordValueBet() {
	ValueBetsFoundTotal.Inc()
}

// RecordBetSettled records a settled bet by outcome ("won" or "lost").
func RecordBetSettled(won bool) {
	outcome := "lost"
	if won {
		outcome = "won"
	}
	BetsSettledTotal.WithLabelValues(outcome).Inc()
}

// RecordNotificationSent records a delivered notification.
func RecordNotificationSent() {
	NotificationsSentTotal.Inc()
}

// RecordProviderError records a provider request failure.
func RecordProviderError(provider string) {
	ProviderErrorsTotal.WithLabelValues(provider).Inc()
}

// UpdatePendingBets updates the pending bet gauge.
func UpdatePendingBets(count int) {
	PendingBets.Set(float64(count))
}

// UpdateTrackedTeams updates the per-league tracked team gauge.
func UpdateTrackedTeams(league string, count int) {
	TrackedTeams.WithLabelValues(league).Set(float64(count))
}

// RecordRefreshDuration records a statistics refresh duration.
func RecordRefreshDuration(durationSeconds float64) {
	RefreshDuration.Observe(durationSeconds)
}
