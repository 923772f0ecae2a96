package store

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for the tournament data.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Role identifies what a user does on the platform.
type Role string

const (
	RoleAthlete    Role = "athlete"
	RoleOrganizer  Role = "organizer"
	RoleAssessor   Role = "assessor"
	RoleReferee    Role = "referee"
	RoleClubOwner  Role = "club_owner"
	RoleForumAdmin Role = "forum_admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAthlete, RoleOrganizer, RoleAssessor, RoleReferee, RoleClubOwner, RoleForumAdmin:
		return true
	}
	return false
}

// TournamentStatus tracks where a tournament is in its lifecycle.
type TournamentStatus string

const (
	TournamentUpcoming     TournamentStatus = "upcoming"
	TournamentRegistration TournamentStatus = "registration"
	TournamentActive       TournamentStatus = "active"
	TournamentCompleted    TournamentStatus = "completed"
)

// ValidTournamentStatus reports whether s is one of the known lifecycle states.
func ValidTournamentStatus(s TournamentStatus) bool {
	switch s {
	case TournamentUpcoming, TournamentRegistration, TournamentActive, TournamentCompleted:
		return true
	}
	return false
}

// RegistrationStatus is the approval state of a registration.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// MatchStatus is the play state of a match.
type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchCancelled  MatchStatus = "cancelled"
)

// ValidSkillLevel reports whether v is a legal rating: between 2.0 and 5.5
// inclusive, in half-point steps.
func ValidSkillLevel(v float64) bool {
	if v < 2.0 || v > 5.5 {
		return false
	}
	doubled := v * 2
	return doubled == float64(int(doubled))
}

// ValidMatchStatus reports whether s is one of the known play states.
func ValidMatchStatus(s MatchStatus) bool {
	switch s {
	case MatchScheduled, MatchInProgress, MatchCompleted, MatchCancelled:
		return true
	}
	return false
}

// User is a platform account. Password is the stored credential and must be
// blanked by callers before a user leaves the process.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"password,omitempty"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Phone      *string   `json:"phone,omitempty"`
	Role       Role      `json:"role"`
	ClubID     *int64    `json:"club_id,omitempty"`
	SkillLevel *float64  `json:"skill_level,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUser carries the caller-supplied fields for user creation.
type NewUser struct {
	Username   string
	Password   string
	Email      string
	FullName   string
	Phone      *string
	Role       Role
	ClubID     *int64
	SkillLevel *float64
	IsActive   *bool
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Password   *string
	Email      *string
	FullName   *string
	Phone      *string
	Role       *Role
	ClubID     *int64
	SkillLevel *float64
	IsActive   *bool
}

type Club struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Location     *string   `json:"location,omitempty"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	ContactPhone *string   `json:"contact_phone,omitempty"`
	OwnerID      *int64    `json:"owner_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type NewClub struct {
	Name         string
	Description  *string
	Location     *string
	ContactEmail *string
	ContactPhone *string
	OwnerID      *int64
	IsActive     *bool
}

type Tournament struct {
	ID                    int64            `json:"id"`
	Name                  string           `json:"name"`
	Description           *string          `json:"description,omitempty"`
	Location              string           `json:"location"`
	StartDate             time.Time        `json:"start_date"`
	EndDate               time.Time        `json:"end_date"`
	RegistrationStartDate time.Time        `json:"registration_start_date"`
	RegistrationEndDate   time.Time        `json:"registration_end_date"`
	MaxParticipants       int              `json:"max_participants"`
	CurrentParticipants   int              `json:"current_participants"`
	Categories            []string         `json:"categories"`
	Status                TournamentStatus `json:"status"`
	OrganizerID           int64            `json:"organizer_id"`
	IsActive              bool             `json:"is_active"`
	CreatedAt             time.Time        `json:"created_at"`
}

type NewTournament struct {
	Name                  string
	Description           *string
	Location              string
	StartDate             time.Time
	EndDate               time.Time
	RegistrationStartDate time.Time
	RegistrationEndDate   time.Time
	MaxParticipants       *int
	Categories            []string
	Status                TournamentStatus
	OrganizerID           int64
	IsActive              *bool
}

type TournamentUpdate struct {
	Name                *string
	Description         *string
	Location            *string
	Status              *TournamentStatus
	MaxParticipants     *int
	CurrentParticipants *int
	Categories          *[]string
	IsActive            *bool
}

type Registration struct {
	ID           int64              `json:"id"`
	TournamentID int64              `json:"tournament_id"`
	AthleteID    int64              `json:"athlete_id"`
	Category     string             `json:"category"`
	PartnerID    *int64             `json:"partner_id,omitempty"`
	Status       RegistrationStatus `json:"status"`
	SkillLevel   float64            `json:"skill_level"`
	Notes        *string            `json:"notes,omitempty"`
	RegisteredAt time.Time          `json:"registered_at"`
	ApprovedAt   *time.Time         `json:"approved_at,omitempty"`
	ApprovedBy   *int64             `json:"approved_by,omitempty"`
}

type NewRegistration struct {
	TournamentID int64
	AthleteID    int64
	Category     string
	PartnerID    *int64
	Status       RegistrationStatus
	SkillLevel   float64
	Notes        *string
}

type RegistrationUpdate struct {
	Status     *RegistrationStatus
	Notes      *string
	ApprovedAt *time.Time
	ApprovedBy *int64
}

// SetScore holds the point totals of one set.
type SetScore struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

// Score is the structured score of a match. Winner, when present on an
// inbound payload, is advisory only; the persisted winner is always computed
// from the set record.
type Score struct {
	Sets   []SetScore `json:"sets"`
	Winner *int       `json:"winner,omitempty"`
}

type Match struct {
	ID            int64       `json:"id"`
	TournamentID  int64       `json:"tournament_id"`
	Category      string      `json:"category"`
	Round         string      `json:"round"`
	Player1ID     int64       `json:"player1_id"`
	Player2ID     *int64      `json:"player2_id,omitempty"`
	Partner1ID    *int64      `json:"partner1_id,omitempty"`
	Partner2ID    *int64      `json:"partner2_id,omitempty"`
	Court         *string     `json:"court,omitempty"`
	ScheduledTime *time.Time  `json:"scheduled_time,omitempty"`
	Status        MatchStatus `json:"status"`
	Score         *Score      `json:"score,omitempty"`
	WinnerID      *int64      `json:"winner_id,omitempty"`
	RefereeID     *int64      `json:"referee_id,omitempty"`
	Notes         *string     `json:"notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type NewMatch struct {
	TournamentID  int64
	Category      string
	Round         string
	Player1ID     int64
	Player2ID     *int64
	Partner1ID    *int64
	Partner2ID    *int64
	Court         *string
	ScheduledTime *time.Time
	Status        MatchStatus
	Score         *Score
	RefereeID     *int64
	Notes         *string
}

type MatchUpdate struct {
	Round         *string
	Player2ID     *int64
	Partner1ID    *int64
	Partner2ID    *int64
	Court         *string
	ScheduledTime *time.Time
	Status        *MatchStatus
	Score         *Score
	WinnerID      *int64
	RefereeID     *int64
	Notes         *string
}

// Achievement records a final placement in a tournament category. Immutable
// once created; there is no update operation.
type Achievement struct {
	ID           int64     `json:"id"`
	AthleteID    int64     `json:"athlete_id"`
	TournamentID int64     `json:"tournament_id"`
	Category     string    `json:"category"`
	Position     int       `json:"position"`
	Points       int       `json:"points"`
	AwardedAt    time.Time `json:"awarded_at"`
}

type NewAchievement struct {
	AthleteID    int64
	TournamentID int64
	Category     string
	Position     int
	Points       int
}
