package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultMaxParticipants applies when a tournament is created without an
// explicit cap.
const DefaultMaxParticipants = 100

const tournamentColumns = "id, name, description, location, start_date, end_date, registration_start_date, registration_end_date, max_participants, current_participants, categories_json, status, organizer_id, is_active, created_at"

func (s *store) CreateTournament(t NewTournament) (*Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxParticipants := DefaultMaxParticipants
	if t.MaxParticipants != nil {
		maxParticipants = *t.MaxParticipants
	}
	active := true
	if t.IsActive != nil {
		active = *t.IsActive
	}
	createdAt := now()

	categoriesJSON, err := json.Marshal(t.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal categories: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO tournaments (name, description, location, start_date, end_date, registration_start_date, registration_end_date, max_participants, current_participants, categories_json, status, organizer_id, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?)`,
		t.Name, nullStr(t.Description), t.Location, t.StartDate.Unix(), t.EndDate.Unix(),
		t.RegistrationStartDate.Unix(), t.RegistrationEndDate.Unix(), maxParticipants,
		string(categoriesJSON), string(t.Status), t.OrganizerID, active, createdAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tournament: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read tournament id: %w", err)
	}

	log.Info("Created tournament", "tournamentID", id, "name", t.Name, "status", t.Status)
	return &Tournament{
		ID:                    id,
		Name:                  t.Name,
		Description:           t.Description,
		Location:              t.Location,
		StartDate:             t.StartDate,
		EndDate:               t.EndDate,
		RegistrationStartDate: t.RegistrationStartDate,
		RegistrationEndDate:   t.RegistrationEndDate,
		MaxParticipants:       maxParticipants,
		CurrentParticipants:   0,
		Categories:            t.Categories,
		Status:                t.Status,
		OrganizerID:           t.OrganizerID,
		IsActive:              active,
		CreatedAt:             createdAt,
	}, nil
}

func (s *store) GetTournament(id int64) (*Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getTournament(id)
}

func (s *store) getTournament(id int64) (*Tournament, error) {
	row := s.db.QueryRow("SELECT "+tournamentColumns+" FROM tournaments WHERE id = ?", id)
	return scanTournament(row)
}

// GetTournaments returns only active tournaments.
func (s *store) GetTournaments() ([]*Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryTournaments("SELECT " + tournamentColumns + " FROM tournaments WHERE is_active = 1 ORDER BY id")
}

func (s *store) GetTournamentsByStatus(status TournamentStatus) ([]*Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryTournaments("SELECT "+tournamentColumns+" FROM tournaments WHERE status = ? AND is_active = 1 ORDER BY id", string(status))
}

func (s *store) queryTournaments(query string, args ...any) ([]*Tournament, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tournaments []*Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			log.Error("Failed to scan tournament row", "error", err)
			continue
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (s *store) UpdateTournament(id int64, upd TournamentUpdate) (*Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getTournament(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = upd.Description
	}
	if upd.Location != nil {
		t.Location = *upd.Location
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.MaxParticipants != nil {
		t.MaxParticipants = *upd.MaxParticipants
	}
	if upd.CurrentParticipants != nil {
		t.CurrentParticipants = *upd.CurrentParticipants
	}
	if upd.Categories != nil {
		t.Categories = *upd.Categories
	}
	if upd.IsActive != nil {
		t.IsActive = *upd.IsActive
	}

	categoriesJSON, err := json.Marshal(t.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal categories: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE tournaments SET name = ?, description = ?, location = ?, status = ?, max_participants = ?, current_participants = ?, categories_json = ?, is_active = ?
		WHERE id = ?`,
		t.Name, nullStr(t.Description), t.Location, string(t.Status), t.MaxParticipants,
		t.CurrentParticipants, string(categoriesJSON), t.IsActive, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	return t, nil
}

func scanTournament(sc scanner) (*Tournament, error) {
	var t Tournament
	var description, categoriesJSON sql.NullString
	var startDate, endDate, regStart, regEnd, createdAt int64

	err := sc.Scan(&t.ID, &t.Name, &description, &t.Location, &startDate, &endDate, &regStart, &regEnd,
		&t.MaxParticipants, &t.CurrentParticipants, &categoriesJSON, &t.Status, &t.OrganizerID, &t.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	t.Description = strPtr(description)
	t.StartDate = time.Unix(startDate, 0).UTC()
	t.EndDate = time.Unix(endDate, 0).UTC()
	t.RegistrationStartDate = time.Unix(regStart, 0).UTC()
	t.RegistrationEndDate = time.Unix(regEnd, 0).UTC()
	t.CreatedAt = time.Unix(createdAt, 0).UTC()

	if categoriesJSON.Valid && categoriesJSON.String != "" {
		if err := json.Unmarshal([]byte(categoriesJSON.String), &t.Categories); err != nil {
			log.Error("Failed to unmarshal categories_json", "error", err, "tournamentID", t.ID)
		}
	}
	return &t, nil
}
