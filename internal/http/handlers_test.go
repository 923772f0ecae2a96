package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huytran-vn/picklepro/internal/config"
	"github.com/huytran-vn/picklepro/internal/database"
	"github.com/huytran-vn/picklepro/internal/events"
	"github.com/huytran-vn/picklepro/internal/leaderboard"
	"github.com/huytran-vn/picklepro/internal/metrics"
	"github.com/huytran-vn/picklepro/internal/notifier"
	"github.com/huytran-vn/picklepro/internal/registration"
	"github.com/huytran-vn/picklepro/internal/scoring"
	"github.com/huytran-vn/picklepro/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T) (*Server, store.TournamentStore, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	st := store.New(db)
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	notifierMock := notifier.NewMock()
	publisher := events.NewMock()

	engine := scoring.New(st, metricsSvc, publisher, notifierMock)
	aggregator := leaderboard.New(st, metricsSvc)
	workflow := registration.New(st, metricsSvc, publisher, notifierMock)

	server := NewServer(st, engine, aggregator, workflow, metricsSvc, metricsHandler, config.Config{})

	return server, st, dbTeardown
}

// doJSON performs a request with a JSON body against the server's router and
// decodes the JSON response into out when it is non-nil.
func doJSON(t *testing.T, server *Server, method, target string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	if out != nil && rr.Code < 300 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
	}
	return rr
}

func registerAthlete(t *testing.T, server *Server, username string) store.User {
	t.Helper()
	var user store.User
	rr := doJSON(t, server, "POST", "/api/auth/register", map[string]any{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "secret",
		"confirm_password": "secret",
		"full_name":        "Athlete " + username,
		"role":             "athlete",
	}, &user)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return user
}

func createTournament(t *testing.T, server *Server, organizerID int64) store.Tournament {
	t.Helper()
	start := time.Now().UTC().AddDate(0, 0, 7)
	var tournament store.Tournament
	rr := doJSON(t, server, "POST", "/api/tournaments", map[string]any{
		"name":                    "Spring Open",
		"location":                "Center Court",
		"start_date":              start.Format(time.RFC3339),
		"end_date":                start.AddDate(0, 0, 2).Format(time.RFC3339),
		"registration_start_date": start.AddDate(0, 0, -7).Format(time.RFC3339),
		"registration_end_date":   start.Format(time.RFC3339),
		"categories":              []string{"singles"},
		"organizer_id":            organizerID,
	}, &tournament)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return tournament
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestRegisterAndLogin(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	user := registerAthlete(t, server, "ana")
	assert.NotZero(t, user.ID)
	assert.Empty(t, user.Password, "password must never leave the server")

	// Duplicate username is refused.
	rr := doJSON(t, server, "POST", "/api/auth/register", map[string]any{
		"username":         "ana",
		"email":            "other@example.com",
		"password":         "secret",
		"confirm_password": "secret",
		"full_name":        "Another Ana",
	}, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Mismatched password confirmation is refused.
	rr = doJSON(t, server, "POST", "/api/auth/register", map[string]any{
		"username":         "bruno",
		"email":            "bruno@example.com",
		"password":         "secret",
		"confirm_password": "different",
		"full_name":        "Bruno Costa",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var login loginResponse
	rr = doJSON(t, server, "POST", "/api/auth/login", map[string]any{
		"username": "ana",
		"password": "secret",
	}, &login)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID, login.User.ID)
	assert.Empty(t, login.User.Password)

	rr = doJSON(t, server, "POST", "/api/auth/login", map[string]any{
		"username": "ana",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateTournamentValidation(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	organizer := registerAthlete(t, server, "org")

	start := time.Now().UTC().AddDate(0, 0, 7)
	payload := map[string]any{
		"name":                    "Broken Open",
		"location":                "Center Court",
		"start_date":              start.Format(time.RFC3339),
		"end_date":                start.AddDate(0, 0, 2).Format(time.RFC3339),
		"registration_start_date": start.AddDate(0, 0, -7).Format(time.RFC3339),
		// Registration closes a day after the tournament starts.
		"registration_end_date": start.AddDate(0, 0, 1).Format(time.RFC3339),
		"organizer_id":          organizer.ID,
	}
	rr := doJSON(t, server, "POST", "/api/tournaments", payload, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	payload["registration_end_date"] = start.Format(time.RFC3339)
	payload["organizer_id"] = 9999
	rr = doJSON(t, server, "POST", "/api/tournaments", payload, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegistrationLifecycleOverHTTP(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	organizer := registerAthlete(t, server, "org")
	athlete := registerAthlete(t, server, "ana")
	tournament := createTournament(t, server, organizer.ID)

	var reg store.Registration
	rr := doJSON(t, server, "POST", "/api/registrations", map[string]any{
		"tournament_id": tournament.ID,
		"athlete_id":    athlete.ID,
		"category":      "singles",
		"skill_level":   4.0,
	}, &reg)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, store.RegistrationPending, reg.Status)

	var pending []store.Registration
	rr = doJSON(t, server, "GET", "/api/registrations?pending=true", nil, &pending)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, pending, 1)

	var approved store.Registration
	rr = doJSON(t, server, "POST", fmt.Sprintf("/api/registrations/%d/approve", reg.ID), map[string]any{
		"approver_id": organizer.ID,
	}, &approved)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, store.RegistrationApproved, approved.Status)

	// A second decision on the same registration conflicts.
	rr = doJSON(t, server, "POST", fmt.Sprintf("/api/registrations/%d/reject", reg.ID), map[string]any{
		"approver_id": organizer.ID,
	}, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestScoreUpdateOverHTTP(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	organizer := registerAthlete(t, server, "org")
	p1 := registerAthlete(t, server, "ana")
	p2 := registerAthlete(t, server, "bruno")
	tournament := createTournament(t, server, organizer.ID)

	var match store.Match
	rr := doJSON(t, server, "POST", "/api/matches", map[string]any{
		"tournament_id": tournament.ID,
		"category":      "singles",
		"round":         "final",
		"player1_id":    p1.ID,
		"player2_id":    p2.ID,
	}, &match)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// An illegal set score is refused.
	rr = doJSON(t, server, "PATCH", fmt.Sprintf("/api/matches/%d/score", match.ID), map[string]any{
		"score":  map[string]any{"sets": []map[string]int{{"player1": 11, "player2": 10}}},
		"status": "in_progress",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var updated store.Match
	rr = doJSON(t, server, "PATCH", fmt.Sprintf("/api/matches/%d/score", match.ID), map[string]any{
		"score": map[string]any{"sets": []map[string]int{
			{"player1": 11, "player2": 5},
			{"player1": 8, "player2": 11},
			{"player1": 11, "player2": 7},
		}},
		"status": "completed",
	}, &updated)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, store.MatchCompleted, updated.Status)
	require.NotNil(t, updated.WinnerID)
	assert.Equal(t, p1.ID, *updated.WinnerID)

	rr = doJSON(t, server, "PATCH", "/api/matches/9999/score", map[string]any{
		"score":  map[string]any{"sets": []map[string]int{}},
		"status": "in_progress",
	}, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLeaderboardAndStatsHandlers(t *testing.T) {
	server, st, teardown := setupTestServer(t)
	defer teardown()

	organizer := registerAthlete(t, server, "org")
	athlete := registerAthlete(t, server, "ana")
	tournament := createTournament(t, server, organizer.ID)

	_, err := st.CreateAchievement(store.NewAchievement{
		AthleteID:    athlete.ID,
		TournamentID: tournament.ID,
		Category:     "singles",
		Position:     1,
		Points:       80,
	})
	require.NoError(t, err)

	var entries []leaderboard.Entry
	rr := doJSON(t, server, "GET", "/api/leaderboard", nil, &entries)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotEmpty(t, entries)
	assert.Equal(t, athlete.ID, entries[0].UserID)
	assert.Equal(t, 80, entries[0].TotalPoints)

	var stats leaderboard.Stats
	rr = doJSON(t, server, "GET", "/api/stats", nil, &stats)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotZero(t, stats.RegisteredAthletes)
}

func TestListUsersRoleFilter(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	rr := doJSON(t, server, "GET", "/api/users?role=pilot", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	registerAthlete(t, server, "ana")
	var users []store.User
	rr = doJSON(t, server, "GET", "/api/users?role=athlete", nil, &users)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)

	// Omitting the role lists athletes.
	users = nil
	rr = doJSON(t, server, "GET", "/api/users", nil, &users)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, users, 1)
}

func TestGetMissingResources(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	rr := doJSON(t, server, "GET", "/api/users/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, server, "GET", "/api/tournaments/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, server, "GET", "/api/matches/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
