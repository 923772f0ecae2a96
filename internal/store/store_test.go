package store_test

import (
	"testing"
	"time"

	"github.com/huytran-vn/picklepro/internal/database"
	"github.com/huytran-vn/picklepro/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (store.TournamentStore, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	st := store.New(db)
	teardown := func() {
		dbTeardown()
	}

	return st, teardown
}

func seedAthlete(t *testing.T, st store.TournamentStore, username string) *store.User {
	t.Helper()
	skill := 4.0
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

func seedTournament(t *testing.T, st store.TournamentStore, organizerID int64) *store.Tournament {
	t.Helper()
	start := time.Now().UTC().Truncate(time.Second).AddDate(0, 0, 7)
	tournament, err := st.CreateTournament(store.NewTournament{
		Name:                  "Spring Open",
		Location:              "Center Court",
		StartDate:             start,
		EndDate:               start.AddDate(0, 0, 2),
		RegistrationStartDate: start.AddDate(0, 0, -7),
		RegistrationEndDate:   start,
		Categories:            []string{"singles", "doubles"},
		Status:                store.TournamentUpcoming,
		OrganizerID:           organizerID,
	})
	require.NoError(t, err)
	return tournament
}

func TestValidSkillLevel(t *testing.T) {
	for _, valid := range []float64{2.0, 2.5, 4.0, 5.5} {
		assert.True(t, store.ValidSkillLevel(valid), "%v should be legal", valid)
	}
	for _, invalid := range []float64{1.5, 5.6, 6.0, 3.2, 0} {
		assert.False(t, store.ValidSkillLevel(invalid), "%v should be illegal", invalid)
	}
}

func TestCreateAndGetUser(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	created := seedAthlete(t, st, "ana")
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)

	fetched, err := st.GetUser(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	byName, err := st.GetUserByUsername("ana")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := st.GetUserByEmail("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = st.GetUser(9999)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateUserMergesFields(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	created := seedAthlete(t, st, "bruno")

	newName := "Bruno C."
	updated, err := st.UpdateUser(created.ID, store.UserUpdate{FullName: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.FullName)
	// Untouched fields keep their values.
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.SkillLevel, updated.SkillLevel)

	inactive := false
	updated, err = st.UpdateUser(created.ID, store.UserUpdate{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, newName, updated.FullName)

	_, err = st.UpdateUser(9999, store.UserUpdate{FullName: &newName})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetUsersByRole(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	seedAthlete(t, st, "ana")
	seedAthlete(t, st, "bruno")
	_, err := st.CreateUser(store.NewUser{
		Username: "org",
		Password: "secret",
		Email:    "org@example.com",
		FullName: "The Organizer",
		Role:     store.RoleOrganizer,
	})
	require.NoError(t, err)

	athletes, err := st.GetUsersByRole(store.RoleAthlete)
	require.NoError(t, err)
	assert.Len(t, athletes, 2)

	organizers, err := st.GetUsersByRole(store.RoleOrganizer)
	require.NoError(t, err)
	assert.Len(t, organizers, 1)

	referees, err := st.GetUsersByRole(store.RoleReferee)
	require.NoError(t, err)
	assert.Empty(t, referees)
}

func TestClubs(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	location := "Riverside"
	club, err := st.CreateClub(store.NewClub{Name: "Riverside PC", Location: &location})
	require.NoError(t, err)
	assert.NotZero(t, club.ID)
	assert.True(t, club.IsActive)

	fetched, err := st.GetClub(club.ID)
	require.NoError(t, err)
	assert.Equal(t, club, fetched)

	clubs, err := st.GetClubs()
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Riverside PC", clubs[0].Name)

	_, err = st.GetClub(42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTournamentRoundTrip(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	organizer := seedAthlete(t, st, "org")
	tournament := seedTournament(t, st, organizer.ID)

	assert.Equal(t, store.DefaultMaxParticipants, tournament.MaxParticipants)
	assert.Zero(t, tournament.CurrentParticipants)

	fetched, err := st.GetTournament(tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament, fetched)
	assert.Equal(t, []string{"singles", "doubles"}, fetched.Categories)
}

func TestTournamentStatusFilter(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	organizer := seedAthlete(t, st, "org")
	tournament := seedTournament(t, st, organizer.ID)

	upcoming, err := st.GetTournamentsByStatus(store.TournamentUpcoming)
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)

	active := store.TournamentActive
	_, err = st.UpdateTournament(tournament.ID, store.TournamentUpdate{Status: &active})
	require.NoError(t, err)

	upcoming, err = st.GetTournamentsByStatus(store.TournamentUpcoming)
	require.NoError(t, err)
	assert.Empty(t, upcoming)

	actives, err := st.GetTournamentsByStatus(store.TournamentActive)
	require.NoError(t, err)
	assert.Len(t, actives, 1)
}

func TestUpdateTournamentMergesFields(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	organizer := seedAthlete(t, st, "org")
	tournament := seedTournament(t, st, organizer.ID)

	participants := 12
	updated, err := st.UpdateTournament(tournament.ID, store.TournamentUpdate{CurrentParticipants: &participants})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.CurrentParticipants)
	assert.Equal(t, tournament.Name, updated.Name)
	assert.Equal(t, tournament.Categories, updated.Categories)
}

func TestRegistrations(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	organizer := seedAthlete(t, st, "org")
	athlete := seedAthlete(t, st, "ana")
	tournament := seedTournament(t, st, organizer.ID)

	reg, err := st.CreateRegistration(store.NewRegistration{
		TournamentID: tournament.ID,
		AthleteID:    athlete.ID,
		Category:     "singles",
		Status:       store.RegistrationPending,
		SkillLevel:   4.0,
	})
	require.NoError(t, err)
	assert.Equal(t, store.RegistrationPending, reg.Status)
	assert.Nil(t, reg.ApprovedAt)

	byTournament, err := st.GetRegistrationsByTournament(tournament.ID)
	require.NoError(t, err)
	assert.Len(t, byTournament, 1)

	byAthlete, err := st.GetRegistrationsByAthlete(athlete.ID)
	require.NoError(t, err)
	assert.Len(t, byAthlete, 1)

	pending, err := st.GetPendingRegistrations()
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved := store.RegistrationApproved
	decidedAt := time.Now().UTC().Truncate(time.Second)
	updated, err := st.UpdateRegistration(reg.ID, store.RegistrationUpdate{
		Status:     &approved,
		ApprovedAt: &decidedAt,
		ApprovedBy: &organizer.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, store.RegistrationApproved, updated.Status)
	require.NotNil(t, updated.ApprovedAt)
	assert.Equal(t, decidedAt, *updated.ApprovedAt)
	require.NotNil(t, updated.ApprovedBy)
	assert.Equal(t, organizer.ID, *updated.ApprovedBy)

	pending, err = st.GetPendingRegistrations()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMatchScoreRoundTrip(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	organizer := seedAthlete(t, st, "org")
	p1 := seedAthlete(t, st, "ana")
	p2 := seedAthlete(t, st, "bruno")
	tournament := seedTournament(t, st, organizer.ID)

	match, err := st.CreateMatch(store.NewMatch{
		TournamentID: tournament.ID,
		Category:     "singles",
		Round:        "final",
		Player1ID:    p1.ID,
		Player2ID:    &p2.ID,
		Status:       store.MatchScheduled,
	})
	require.NoError(t, err)
	assert.Nil(t, match.Score)
	assert.Nil(t, match.WinnerID)

	score := store.Score{Sets: []store.SetScore{{Player1: 11, Player2: 5}, {Player1: 11, Player2: 7}}}
	completed := store.MatchCompleted
	updated, err := st.UpdateMatch(match.ID, store.MatchUpdate{
		Score:    &score,
		Status:   &completed,
		WinnerID: &p1.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Score)
	assert.Equal(t, score.Sets, updated.Score.Sets)
	require.NotNil(t, updated.WinnerID)
	assert.Equal(t, p1.ID, *updated.WinnerID)
	assert.False(t, updated.UpdatedAt.Before(match.UpdatedAt))

	fetched, err := st.GetMatch(match.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, fetched)
}

func TestMatchFilters(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	organizer := seedAthlete(t, st, "org")
	p1 := seedAthlete(t, st, "ana")
	p2 := seedAthlete(t, st, "bruno")
	tournament := seedTournament(t, st, organizer.ID)

	first, err := st.CreateMatch(store.NewMatch{
		TournamentID: tournament.ID,
		Category:     "singles",
		Round:        "semifinal",
		Player1ID:    p1.ID,
		Player2ID:    &p2.ID,
		Status:       store.MatchScheduled,
	})
	require.NoError(t, err)
	_, err = st.CreateMatch(store.NewMatch{
		TournamentID: tournament.ID,
		Category:     "singles",
		Round:        "semifinal",
		Player1ID:    p2.ID,
		Status:       store.MatchInProgress,
	})
	require.NoError(t, err)

	all, err := st.GetAllMatches()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byTournament, err := st.GetMatchesByTournament(tournament.ID)
	require.NoError(t, err)
	assert.Len(t, byTournament, 2)

	live, err := st.GetLiveMatches()
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, store.MatchInProgress, live[0].Status)
	assert.NotEqual(t, first.ID, live[0].ID)
}

func TestAchievements(t *testing.T) {
	st, teardown := setupTestDB(t)
	defer teardown()

	organizer := seedAthlete(t, st, "org")
	athlete := seedAthlete(t, st, "ana")
	tournament := seedTournament(t, st, organizer.ID)

	achievement, err := st.CreateAchievement(store.NewAchievement{
		AthleteID:    athlete.ID,
		TournamentID: tournament.ID,
		Category:     "singles",
		Position:     1,
		Points:       100,
	})
	require.NoError(t, err)
	assert.NotZero(t, achievement.ID)
	assert.False(t, achievement.AwardedAt.IsZero())

	fetched, err := st.GetAchievement(achievement.ID)
	require.NoError(t, err)
	assert.Equal(t, achievement, fetched)

	byAthlete, err := st.GetAchievementsByAthlete(athlete.ID)
	require.NoError(t, err)
	require.Len(t, byAthlete, 1)
	assert.Equal(t, 100, byAthlete[0].Points)

	none, err := st.GetAchievementsByAthlete(organizer.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
