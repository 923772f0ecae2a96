package store

// TournamentStore defines the interface for interacting with the tournament data.
type TournamentStore interface {
	// Users
	CreateUser(u NewUser) (*User, error)
	GetUser(id int64) (*User, error)
	GetUserByUsername(username string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	UpdateUser(id int64, upd UserUpdate) (*User, error)
	GetUsersByRole(role Role) ([]*User, error)

	// Clubs
	CreateClub(c NewClub) (*Club, error)
	GetClub(id int64) (*Club, error)
	GetClubs() ([]*Club, error)

	// Tournaments
	CreateTournament(t NewTournament) (*Tournament, error)
	GetTournament(id int64) (*Tournament, error)
	GetTournaments() ([]*Tournament, error)
	GetTournamentsByStatus(status TournamentStatus) ([]*Tournament, error)
	UpdateTournament(id int64, upd TournamentUpdate) (*Tournament, error)

	// Registrations
	CreateRegistration(r NewRegistration) (*Registration, error)
	GetRegistration(id int64) (*Registration, error)
	GetRegistrationsByTournament(tournamentID int64) ([]*Registration, error)
	GetRegistrationsByAthlete(athleteID int64) ([]*Registration, error)
	GetPendingRegistrations() ([]*Registration, error)
	UpdateRegistration(id int64, upd RegistrationUpdate) (*Registration, error)

	// Matches
	CreateMatch(m NewMatch) (*Match, error)
	GetMatch(id int64) (*Match, error)
	GetMatchesByTournament(tournamentID int64) ([]*Match, error)
	GetLiveMatches() ([]*Match, error)
	GetAllMatches() ([]*Match, error)
	UpdateMatch(id int64, upd MatchUpdate) (*Match, error)

	// Achievements
	CreateAchievement(a NewAchievement) (*Achievement, error)
	GetAchievement(id int64) (*Achievement, error)
	GetAchievementsByAthlete(athleteID int64) ([]*Achievement, error)
}
