package http

import (
	"net/http"
	"sync"

	"github.com/huytran-vn/picklepro/internal/config"
	"github.com/huytran-vn/picklepro/internal/leaderboard"
	"github.com/huytran-vn/picklepro/internal/metrics"
	"github.com/huytran-vn/picklepro/internal/registration"
	"github.com/huytran-vn/picklepro/internal/scoring"
	"github.com/huytran-vn/picklepro/internal/store"
)

type Server struct {
	Store          store.TournamentStore
	Scoring        *scoring.Engine
	Leaderboard    *leaderboard.Aggregator
	Registrations  *registration.Workflow
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux

	// sessions maps opaque bearer tokens to user ids. It only lives for
	// the lifetime of the process.
	sessionsMu sync.RWMutex
	sessions   map[string]int64
}
