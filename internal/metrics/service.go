package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ScoreUpdatesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickle_score_updates_applied_total",
			Help: "The total number of score updates accepted and persisted.",
		}),
		ScoreUpdatesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickle_score_updates_rejected_total",
			Help: "The total number of score updates rejected by validation.",
		}),
		ScoreUpdateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pickle_score_update_duration_seconds",
			Help:    "The duration of individual score update operations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RegistrationsDecided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pickle_registrations_decided_total",
			Help: "The total number of registrations approved or rejected.",
		}, []string{"outcome"}),
		LeaderboardComputations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickle_leaderboard_computations_total",
			Help: "The total number of leaderboard recomputations.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pickle_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ScoreUpdatesApplied,
		s.ScoreUpdatesRejected,
		s.ScoreUpdateDuration,
		s.RegistrationsDecided,
		s.LeaderboardComputations,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncScoreUpdatesApplied() {
	s.ScoreUpdatesApplied.Inc()
}

func (s *Service) IncScoreUpdatesRejected() {
	s.ScoreUpdatesRejected.Inc()
}

func (s *Service) ObserveScoreUpdateDuration(duration float64) {
	s.ScoreUpdateDuration.Observe(duration)
}

func (s *Service) IncRegistrationsDecided(outcome string) {
	s.RegistrationsDecided.WithLabelValues(outcome).Inc()
}

func (s *Service) IncLeaderboardComputations() {
	s.LeaderboardComputations.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
