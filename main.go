package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/huytran-vn/picklepro/internal/config"
	"github.com/huytran-vn/picklepro/internal/database"
	"github.com/huytran-vn/picklepro/internal/events"
	server "github.com/huytran-vn/picklepro/internal/http"
	"github.com/huytran-vn/picklepro/internal/leaderboard"
	"github.com/huytran-vn/picklepro/internal/metrics"
	"github.com/huytran-vn/picklepro/internal/notifier"
	"github.com/huytran-vn/picklepro/internal/notifier/slack"
	"github.com/huytran-vn/picklepro/internal/registration"
	"github.com/huytran-vn/picklepro/internal/scoring"
	"github.com/huytran-vn/picklepro/internal/store"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	tournamentStore := store.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var notifierSvc notifier.Notifier
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID != "" {
		notifierSvc = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID)
	} else {
		log.Info("Slack is not configured, notifications disabled")
		notifierSvc = notifier.NewNoop()
	}

	var publisher events.Publisher
	if cfg.ProjectID != "" {
		publisher = events.New(cfg.ProjectID)
	} else {
		log.Info("GCP project is not configured, event publishing disabled")
		publisher = events.NewNoop()
	}

	scoringEngine := scoring.New(tournamentStore, metricsSvc, publisher, notifierSvc)
	aggregator := leaderboard.New(tournamentStore, metricsSvc)
	registrations := registration.New(tournamentStore, metricsSvc, publisher, notifierSvc)

	seedDefaultOrganizer(tournamentStore)

	s := server.NewServer(
		tournamentStore,
		scoringEngine,
		aggregator,
		registrations,
		metricsSvc,
		metricsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// seedDefaultOrganizer guarantees at least one organizer account exists so a
// fresh deployment can log in and start creating tournaments. It is a no-op
// when the account is already present.
func seedDefaultOrganizer(st store.TournamentStore) {
	const username = "organizer"
	if _, err := st.GetUserByUsername(username); err == nil {
		return
	}
	user, err := st.CreateUser(store.NewUser{
		Username: username,
		Password: "organizer123",
		Email:    "organizer@picklepro.local",
		FullName: "Default Organizer",
		Role:     store.RoleOrganizer,
	})
	if err != nil {
		log.Error("Failed to seed default organizer", "error", err)
		return
	}
	log.Info("Seeded default organizer account", "user", user.ID)
}
