package metrics

import "github.com/prometheus/client_golang/prometheus"

// Status label values for ForecastRuns.
const (
	StatusOK       = "ok"
	StatusFallback = "fallback"
	StatusError    = "error"
)

var (
	ForecastRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_forecast_runs_total",
			Help: "Total number of forecast runs, by outcome",
		},
		[]string{"status"},
	)

	ForecastPoints = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stockcast_forecast_points_total",
			Help: "Total number of forecast points generated",
		},
	)

	ForecastDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stockcast_forecast_duration_seconds",
			Help:    "Duration of single-product forecast runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	AlertsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockcast_alerts_created_total",
			Help: "Total number of replenishment alerts created, by type",
		},
		[]string{"alert_type"},
	)

	PODrafts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stockcast_po_drafts_total",
			Help: "Total number of purchase order drafts built",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ForecastRuns,
		ForecastPoints,
		ForecastDuration,
		AlertsCreated,
		PODrafts,
	)
}
