package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncScoreUpdatesApplied()
	IncScoreUpdatesRejected()
	ObserveScoreUpdateDuration(duration float64)
	IncRegistrationsDecided(outcome string)
	IncLeaderboardComputations()
	SetStartupTime(duration float64)
}
