package leaderboard

import (
	"math"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/huytran-vn/picklepro/internal/metrics"
	"github.com/huytran-vn/picklepro/internal/store"
)

// Entry is one ranked leaderboard row: an athlete's profile combined with
// aggregates derived from completed matches and achievements.
type Entry struct {
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username"`
	FullName    string   `json:"full_name"`
	ClubID      *int64   `json:"club_id,omitempty"`
	SkillLevel  *float64 `json:"skill_level,omitempty"`
	TotalPoints int      `json:"total_points"`
	Wins        int      `json:"wins"`
	WinRate     int      `json:"win_rate"`
}

// Stats holds the system-wide summary counters.
type Stats struct {
	ActiveTournaments  int     `json:"active_tournaments"`
	RegisteredAthletes int     `json:"registered_athletes"`
	TodayMatches       int     `json:"today_matches"`
	AverageRating      float64 `json:"average_rating"`
}

// Aggregator computes standings and summary statistics on demand. Both
// operations are read-only and recompute from scratch on every call.
type Aggregator struct {
	store   store.TournamentStore
	metrics metrics.Metrics
}

// New creates a new Aggregator.
func New(st store.TournamentStore, metricsSvc metrics.Metrics) *Aggregator {
	return &Aggregator{
		store:   st,
		metrics: metricsSvc,
	}
}

// ComputeLeaderboard ranks every athlete by total achievement points,
// descending. Ties are broken by ascending user id so the ordering is
// deterministic. Win rate is a rounded integer percentage over completed
// matches, 0 when the athlete has no completed matches.
func (a *Aggregator) ComputeLeaderboard() ([]Entry, error) {
	defer a.metrics.IncLeaderboardComputations()

	athletes, err := a.store.GetUsersByRole(store.RoleAthlete)
	if err != nil {
		return nil, err
	}
	matches, err := a.store.GetAllMatches()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(athletes))
	for _, athlete := range athletes {
		var completed, wins int
		for _, match := range matches {
			if match.Status != store.MatchCompleted {
				continue
			}
			if match.Player1ID != athlete.ID && (match.Player2ID == nil || *match.Player2ID != athlete.ID) {
				continue
			}
			completed++
			if match.WinnerID != nil && *match.WinnerID == athlete.ID {
				wins++
			}
		}

		winRate := 0
		if completed > 0 {
			winRate = int(math.Round(float64(wins) / float64(completed) * 100))
		}

		achievements, err := a.store.GetAchievementsByAthlete(athlete.ID)
		if err != nil {
			return nil, err
		}
		totalPoints := 0
		for _, achievement := range achievements {
			totalPoints += achievement.Points
		}

		entries = append(entries, Entry{
			UserID:      athlete.ID,
			Username:    athlete.Username,
			FullName:    athlete.FullName,
			ClubID:      athlete.ClubID,
			SkillLevel:  athlete.SkillLevel,
			TotalPoints: totalPoints,
			Wins:        wins,
			WinRate:     winRate,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].UserID < entries[j].UserID
	})

	log.Debug("Computed leaderboard", "athletes", len(entries))
	return entries, nil
}

// ComputeStats derives the dashboard counters as of call time. All counters
// are zero on an empty store.
func (a *Aggregator) ComputeStats() (*Stats, error) {
	stats := &Stats{}

	activeTournaments, err := a.store.GetTournamentsByStatus(store.TournamentActive)
	if err != nil {
		return nil, err
	}
	stats.ActiveTournaments = len(activeTournaments)

	athletes, err := a.store.GetUsersByRole(store.RoleAthlete)
	if err != nil {
		return nil, err
	}
	var ratingSum float64
	var ratedAthletes int
	for _, athlete := range athletes {
		if athlete.IsActive {
			stats.RegisteredAthletes++
		}
		if athlete.SkillLevel != nil {
			ratingSum += *athlete.SkillLevel
			ratedAthletes++
		}
	}
	if ratedAthletes > 0 {
		stats.AverageRating = math.Round(ratingSum/float64(ratedAthletes)*10) / 10
	}

	matches, err := a.store.GetAllMatches()
	if err != nil {
		return nil, err
	}
	dayStart := startOfToday()
	dayEnd := dayStart.AddDate(0, 0, 1)
	for _, match := range matches {
		if match.ScheduledTime == nil {
			continue
		}
		scheduled := match.ScheduledTime.Local()
		if !scheduled.Before(dayStart) && scheduled.Before(dayEnd) {
			stats.TodayMatches++
		}
	}

	return stats, nil
}

// startOfToday returns midnight of the current calendar day in the active
// timezone.
func startOfToday() time.Time {
	now := time.Now().Local()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
