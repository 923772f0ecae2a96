package http

import (
	"net/http"

	"github.com/huytran-vn/picklepro/internal/config"
	"github.com/huytran-vn/picklepro/internal/leaderboard"
	"github.com/huytran-vn/picklepro/internal/metrics"
	"github.com/huytran-vn/picklepro/internal/registration"
	"github.com/huytran-vn/picklepro/internal/scoring"
	"github.com/huytran-vn/picklepro/internal/store"
)

func NewServer(st store.TournamentStore, scoringEngine *scoring.Engine, aggregator *leaderboard.Aggregator, registrations *registration.Workflow, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          st,
		Scoring:        scoringEngine,
		Leaderboard:    aggregator,
		Registrations:  registrations,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		sessions:       make(map[string]int64),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/auth/register", Chain(s.RegisterUserHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/auth/login", Chain(s.LoginHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/users", Chain(s.ListUsersHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/users/{id}", Chain(s.GetUserHandler(), paramsMiddleware))
	s.Router.Handle("PATCH /api/users/{id}", Chain(s.UpdateUserHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/clubs", Chain(s.CreateClubHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/clubs", Chain(s.ListClubsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/clubs/{id}", Chain(s.GetClubHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/tournaments", Chain(s.CreateTournamentHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/tournaments", Chain(s.ListTournamentsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/tournaments/{id}", Chain(s.GetTournamentHandler(), paramsMiddleware))
	s.Router.Handle("PATCH /api/tournaments/{id}", Chain(s.UpdateTournamentHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/registrations", Chain(s.CreateRegistrationHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/registrations", Chain(s.ListRegistrationsHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/registrations/{id}/approve", Chain(s.ApproveRegistrationHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/registrations/{id}/reject", Chain(s.RejectRegistrationHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/matches", Chain(s.CreateMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/matches/live", Chain(s.ListLiveMatchesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("PATCH /api/matches/{id}/score", Chain(s.UpdateScoreHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/stats", Chain(s.StatsHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/achievements", Chain(s.CreateAchievementHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/athletes/{id}/achievements", Chain(s.ListAchievementsHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
