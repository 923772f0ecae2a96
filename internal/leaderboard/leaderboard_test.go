package leaderboard_test

import (
	"testing"
	"time"

	"github.com/huytran-vn/picklepro/internal/database"
	"github.com/huytran-vn/picklepro/internal/leaderboard"
	"github.com/huytran-vn/picklepro/internal/metrics"
	"github.com/huytran-vn/picklepro/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAggregator(t *testing.T) (*leaderboard.Aggregator, store.TournamentStore, *metrics.Mock, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	st := store.New(db)
	metricsMock := metrics.NewMock()
	return leaderboard.New(st, metricsMock), st, metricsMock, dbTeardown
}

func seedAthlete(t *testing.T, st store.TournamentStore, username string, skill float64) *store.User {
	t.Helper()
	user, err := st.CreateUser(store.NewUser{
		Username:   username,
		Password:   "secret",
		Email:      username + "@example.com",
		FullName:   "Athlete " + username,
		Role:       store.RoleAthlete,
		SkillLevel: &skill,
	})
	require.NoError(t, err)
	return user
}

func seedTournament(t *testing.T, st store.TournamentStore, organizerID int64, status store.TournamentStatus) *store.Tournament {
	t.Helper()
	start := time.Now().UTC().Truncate(time.Second).AddDate(0, 0, 7)
	tournament, err := st.CreateTournament(store.NewTournament{
		Name:                  "Spring Open",
		Location:              "Center Court",
		StartDate:             start,
		EndDate:               start.AddDate(0, 0, 2),
		RegistrationStartDate: start.AddDate(0, 0, -7),
		RegistrationEndDate:   start,
		Categories:            []string{"singles"},
		Status:                status,
		OrganizerID:           organizerID,
	})
	require.NoError(t, err)
	return tournament
}

func seedCompletedMatch(t *testing.T, st store.TournamentStore, tournamentID, p1, p2, winner int64) {
	t.Helper()
	match, err := st.CreateMatch(store.NewMatch{
		TournamentID: tournamentID,
		Category:     "singles",
		Round:        "group",
		Player1ID:    p1,
		Player2ID:    &p2,
		Status:       store.MatchScheduled,
	})
	require.NoError(t, err)
	completed := store.MatchCompleted
	_, err = st.UpdateMatch(match.ID, store.MatchUpdate{Status: &completed, WinnerID: &winner})
	require.NoError(t, err)
}

func seedAchievement(t *testing.T, st store.TournamentStore, athleteID, tournamentID int64, points int) {
	t.Helper()
	_, err := st.CreateAchievement(store.NewAchievement{
		AthleteID:    athleteID,
		TournamentID: tournamentID,
		Category:     "singles",
		Position:     1,
		Points:       points,
	})
	require.NoError(t, err)
}

func TestComputeLeaderboardRanking(t *testing.T) {
	agg, st, metricsMock, teardown := setupAggregator(t)
	defer teardown()

	organizer, err := st.CreateUser(store.NewUser{
		Username: "org", Password: "secret", Email: "org@example.com",
		FullName: "The Organizer", Role: store.RoleOrganizer,
	})
	require.NoError(t, err)
	tournament := seedTournament(t, st, organizer.ID, store.TournamentCompleted)

	ana := seedAthlete(t, st, "ana", 4.0)
	bruno := seedAthlete(t, st, "bruno", 3.5)
	carla := seedAthlete(t, st, "carla", 4.5)

	// Ana beats Bruno twice; Carla beats Ana once.
	seedCompletedMatch(t, st, tournament.ID, ana.ID, bruno.ID, ana.ID)
	seedCompletedMatch(t, st, tournament.ID, ana.ID, bruno.ID, ana.ID)
	seedCompletedMatch(t, st, tournament.ID, carla.ID, ana.ID, carla.ID)

	seedAchievement(t, st, ana.ID, tournament.ID, 100)
	seedAchievement(t, st, carla.ID, tournament.ID, 60)

	entries, err := agg.ComputeLeaderboard()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, ana.ID, entries[0].UserID)
	assert.Equal(t, 100, entries[0].TotalPoints)
	assert.Equal(t, 2, entries[0].Wins)
	assert.Equal(t, 67, entries[0].WinRate, "two wins out of three completed matches")

	assert.Equal(t, carla.ID, entries[1].UserID)
	assert.Equal(t, 60, entries[1].TotalPoints)
	assert.Equal(t, 1, entries[1].Wins)
	assert.Equal(t, 100, entries[1].WinRate)

	assert.Equal(t, bruno.ID, entries[2].UserID)
	assert.Zero(t, entries[2].TotalPoints)
	assert.Zero(t, entries[2].Wins)
	assert.Zero(t, entries[2].WinRate)

	assert.Equal(t, 1, metricsMock.LeaderboardComputedCount)
}

func TestComputeLeaderboardTieBreak(t *testing.T) {
	agg, st, _, teardown := setupAggregator(t)
	defer teardown()

	ana := seedAthlete(t, st, "ana", 4.0)
	bruno := seedAthlete(t, st, "bruno", 3.5)

	// Both on zero points; the lower user id comes first.
	entries, err := agg.ComputeLeaderboard()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ana.ID, entries[0].UserID)
	assert.Equal(t, bruno.ID, entries[1].UserID)
}

func TestComputeLeaderboardEmptyStore(t *testing.T) {
	agg, _, _, teardown := setupAggregator(t)
	defer teardown()

	entries, err := agg.ComputeLeaderboard()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestComputeStats(t *testing.T) {
	agg, st, _, teardown := setupAggregator(t)
	defer teardown()

	organizer, err := st.CreateUser(store.NewUser{
		Username: "org", Password: "secret", Email: "org@example.com",
		FullName: "The Organizer", Role: store.RoleOrganizer,
	})
	require.NoError(t, err)

	seedTournament(t, st, organizer.ID, store.TournamentActive)
	seedTournament(t, st, organizer.ID, store.TournamentUpcoming)
	tournament := seedTournament(t, st, organizer.ID, store.TournamentActive)

	ana := seedAthlete(t, st, "ana", 4.0)
	bruno := seedAthlete(t, st, "bruno", 3.0)
	inactive := seedAthlete(t, st, "carla", 3.5)
	active := false
	_, err = st.UpdateUser(inactive.ID, store.UserUpdate{IsActive: &active})
	require.NoError(t, err)

	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)
	_, err = st.CreateMatch(store.NewMatch{
		TournamentID: tournament.ID, Category: "singles", Round: "group",
		Player1ID: ana.ID, Player2ID: &bruno.ID,
		ScheduledTime: &today, Status: store.MatchScheduled,
	})
	require.NoError(t, err)
	_, err = st.CreateMatch(store.NewMatch{
		TournamentID: tournament.ID, Category: "singles", Round: "group",
		Player1ID: bruno.ID, Player2ID: &ana.ID,
		ScheduledTime: &yesterday, Status: store.MatchCompleted,
	})
	require.NoError(t, err)

	stats, err := agg.ComputeStats()
	require.NoError(t, err)

	assert.Equal(t, 2, stats.ActiveTournaments)
	assert.Equal(t, 2, stats.RegisteredAthletes, "inactive athletes are not counted")
	assert.Equal(t, 1, stats.TodayMatches)
	assert.InDelta(t, 3.5, stats.AverageRating, 0.001, "mean of 4.0, 3.0 and 3.5 to one decimal")
}

func TestComputeStatsEmptyStore(t *testing.T) {
	agg, _, _, teardown := setupAggregator(t)
	defer teardown()

	stats, err := agg.ComputeStats()
	require.NoError(t, err)
	assert.Zero(t, stats.ActiveTournaments)
	assert.Zero(t, stats.RegisteredAthletes)
	assert.Zero(t, stats.TodayMatches)
	assert.Zero(t, stats.AverageRating)
}
