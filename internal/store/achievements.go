package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const achievementColumns = "id, athlete_id, tournament_id, category, position, points, awarded_at"

func (s *store) CreateAchievement(a NewAchievement) (*Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	awardedAt := now()

	res, err := s.db.Exec(`
		INSERT INTO achievements (athlete_id, tournament_id, category, position, points, awarded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.AthleteID, a.TournamentID, a.Category, a.Position, a.Points, awardedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert achievement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read achievement id: %w", err)
	}

	log.Info("Created achievement", "achievementID", id, "athleteID", a.AthleteID, "position", a.Position, "points", a.Points)
	return &Achievement{
		ID:           id,
		AthleteID:    a.AthleteID,
		TournamentID: a.TournamentID,
		Category:     a.Category,
		Position:     a.Position,
		Points:       a.Points,
		AwardedAt:    awardedAt,
	}, nil
}

func (s *store) GetAchievement(id int64) (*Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+achievementColumns+" FROM achievements WHERE id = ?", id)
	return scanAchievement(row)
}

func (s *store) GetAchievementsByAthlete(athleteID int64) ([]*Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT "+achievementColumns+" FROM achievements WHERE athlete_id = ? ORDER BY id", athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []*Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			log.Error("Failed to scan achievement row", "error", err)
			continue
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func scanAchievement(sc scanner) (*Achievement, error) {
	var a Achievement
	var awardedAt int64

	err := sc.Scan(&a.ID, &a.AthleteID, &a.TournamentID, &a.Category, &a.Position, &a.Points, &awardedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.AwardedAt = time.Unix(awardedAt, 0).UTC()
	return &a, nil
}
