package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const matchColumns = "id, tournament_id, category, round, player1_id, player2_id, partner1_id, partner2_id, court, scheduled_time, status, score_json, winner_id, referee_id, notes, created_at, updated_at"

func (s *store) CreateMatch(m NewMatch) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := now()

	scoreJSON, err := marshalScore(m.Score)
	if err != nil {
		return nil, err
	}

	res, err := s.db.Exec(`
		INSERT INTO matches (tournament_id, category, round, player1_id, player2_id, partner1_id, partner2_id, court, scheduled_time, status, score_json, winner_id, referee_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, ?, ?)`,
		m.TournamentID, m.Category, m.Round, m.Player1ID, nullInt(m.Player2ID),
		nullInt(m.Partner1ID), nullInt(m.Partner2ID), nullStr(m.Court), nullUnix(m.ScheduledTime),
		string(m.Status), scoreJSON, nullInt(m.RefereeID), nullStr(m.Notes),
		createdAt.Unix(), createdAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read match id: %w", err)
	}

	log.Info("Created match", "matchID", id, "tournamentID", m.TournamentID, "round", m.Round)
	return &Match{
		ID:            id,
		TournamentID:  m.TournamentID,
		Category:      m.Category,
		Round:         m.Round,
		Player1ID:     m.Player1ID,
		Player2ID:     m.Player2ID,
		Partner1ID:    m.Partner1ID,
		Partner2ID:    m.Partner2ID,
		Court:         m.Court,
		ScheduledTime: m.ScheduledTime,
		Status:        m.Status,
		Score:         m.Score,
		RefereeID:     m.RefereeID,
		Notes:         m.Notes,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}, nil
}

func (s *store) GetMatch(id int64) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMatch(id)
}

func (s *store) getMatch(id int64) (*Match, error) {
	row := s.db.QueryRow("SELECT "+matchColumns+" FROM matches WHERE id = ?", id)
	return scanMatch(row)
}

func (s *store) GetMatchesByTournament(tournamentID int64) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches("SELECT "+matchColumns+" FROM matches WHERE tournament_id = ? ORDER BY id", tournamentID)
}

// GetLiveMatches returns matches currently in progress.
func (s *store) GetLiveMatches() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches("SELECT "+matchColumns+" FROM matches WHERE status = ? ORDER BY id", string(MatchInProgress))
}

func (s *store) GetAllMatches() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches("SELECT " + matchColumns + " FROM matches ORDER BY id")
}

func (s *store) queryMatches(query string, args ...any) ([]*Match, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// UpdateMatch merges the supplied fields and re-stamps updated_at.
func (s *store) UpdateMatch(id int64, upd MatchUpdate) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.getMatch(id)
	if err != nil {
		return nil, err
	}

	if upd.Round != nil {
		m.Round = *upd.Round
	}
	if upd.Player2ID != nil {
		m.Player2ID = upd.Player2ID
	}
	if upd.Partner1ID != nil {
		m.Partner1ID = upd.Partner1ID
	}
	if upd.Partner2ID != nil {
		m.Partner2ID = upd.Partner2ID
	}
	if upd.Court != nil {
		m.Court = upd.Court
	}
	if upd.ScheduledTime != nil {
		t := upd.ScheduledTime.UTC().Truncate(time.Second)
		m.ScheduledTime = &t
	}
	if upd.Status != nil {
		m.Status = *upd.Status
	}
	if upd.Score != nil {
		m.Score = upd.Score
	}
	if upd.WinnerID != nil {
		m.WinnerID = upd.WinnerID
	}
	if upd.RefereeID != nil {
		m.RefereeID = upd.RefereeID
	}
	if upd.Notes != nil {
		m.Notes = upd.Notes
	}
	m.UpdatedAt = now()

	scoreJSON, err := marshalScore(m.Score)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(`
		UPDATE matches SET round = ?, player2_id = ?, partner1_id = ?, partner2_id = ?, court = ?, scheduled_time = ?, status = ?, score_json = ?, winner_id = ?, referee_id = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		m.Round, nullInt(m.Player2ID), nullInt(m.Partner1ID), nullInt(m.Partner2ID),
		nullStr(m.Court), nullUnix(m.ScheduledTime), string(m.Status), scoreJSON,
		nullInt(m.WinnerID), nullInt(m.RefereeID), nullStr(m.Notes), m.UpdatedAt.Unix(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}
	return m, nil
}

func marshalScore(score *Score) (sql.NullString, error) {
	if score == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(score)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal score: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanMatch(sc scanner) (*Match, error) {
	var m Match
	var player2ID, partner1ID, partner2ID, winnerID, refereeID, scheduledTime sql.NullInt64
	var court, scoreJSON, notes sql.NullString
	var createdAt, updatedAt int64

	err := sc.Scan(&m.ID, &m.TournamentID, &m.Category, &m.Round, &m.Player1ID, &player2ID,
		&partner1ID, &partner2ID, &court, &scheduledTime, &m.Status, &scoreJSON,
		&winnerID, &refereeID, &notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m.Player2ID = intPtr(player2ID)
	m.Partner1ID = intPtr(partner1ID)
	m.Partner2ID = intPtr(partner2ID)
	m.Court = strPtr(court)
	m.ScheduledTime = timePtr(scheduledTime)
	m.WinnerID = intPtr(winnerID)
	m.RefereeID = intPtr(refereeID)
	m.Notes = strPtr(notes)
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	m.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	if scoreJSON.Valid && scoreJSON.String != "" {
		var score Score
		if err := json.Unmarshal([]byte(scoreJSON.String), &score); err != nil {
			log.Error("Failed to unmarshal score_json", "error", err, "matchID", m.ID)
		} else {
			m.Score = &score
		}
	}
	return &m, nil
}
