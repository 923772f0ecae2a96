package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	ScoreUpdatesApplied     prometheus.Counter
	ScoreUpdatesRejected    prometheus.Counter
	ScoreUpdateDuration     prometheus.Histogram
	RegistrationsDecided    *prometheus.CounterVec
	LeaderboardComputations prometheus.Counter
	StartupTimeSeconds      prometheus.Gauge
}
