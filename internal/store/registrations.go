package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const registrationColumns = "id, tournament_id, athlete_id, category, partner_id, status, skill_level, notes, registered_at, approved_at, approved_by"

func (s *store) CreateRegistration(r NewRegistration) (*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registeredAt := now()

	res, err := s.db.Exec(`
		INSERT INTO registrations (tournament_id, athlete_id, category, partner_id, status, skill_level, notes, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TournamentID, r.AthleteID, r.Category, nullInt(r.PartnerID), string(r.Status),
		r.SkillLevel, nullStr(r.Notes), registeredAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert registration: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read registration id: %w", err)
	}

	log.Info("Created registration", "registrationID", id, "tournamentID", r.TournamentID, "athleteID", r.AthleteID)
	return &Registration{
		ID:           id,
		TournamentID: r.TournamentID,
		AthleteID:    r.AthleteID,
		Category:     r.Category,
		PartnerID:    r.PartnerID,
		Status:       r.Status,
		SkillLevel:   r.SkillLevel,
		Notes:        r.Notes,
		RegisteredAt: registeredAt,
	}, nil
}

func (s *store) GetRegistration(id int64) (*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getRegistration(id)
}

func (s *store) getRegistration(id int64) (*Registration, error) {
	row := s.db.QueryRow("SELECT "+registrationColumns+" FROM registrations WHERE id = ?", id)
	return scanRegistration(row)
}

func (s *store) GetRegistrationsByTournament(tournamentID int64) ([]*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryRegistrations("SELECT "+registrationColumns+" FROM registrations WHERE tournament_id = ? ORDER BY id", tournamentID)
}

func (s *store) GetRegistrationsByAthlete(athleteID int64) ([]*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryRegistrations("SELECT "+registrationColumns+" FROM registrations WHERE athlete_id = ? ORDER BY id", athleteID)
}

func (s *store) GetPendingRegistrations() ([]*Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryRegistrations("SELECT "+registrationColumns+" FROM registrations WHERE status = ? ORDER BY id", string(RegistrationPending))
}

func (s *store) queryRegistrations(query string, args ...any) ([]*Registration, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registrations []*Registration
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			log.Error("Failed to scan registration row", "error", err)
			continue
		}
		registrations = append(registrations, r)
	}
	return registrations, rows.Err()
}

// UpdateRegistration applies the supplied fields in a single statement, so a
// status change and its approval metadata land atomically.
func (s *store) UpdateRegistration(id int64, upd RegistrationUpdate) (*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.getRegistration(id)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil {
		r.Status = *upd.Status
	}
	if upd.Notes != nil {
		r.Notes = upd.Notes
	}
	if upd.ApprovedAt != nil {
		t := upd.ApprovedAt.UTC().Truncate(time.Second)
		r.ApprovedAt = &t
	}
	if upd.ApprovedBy != nil {
		r.ApprovedBy = upd.ApprovedBy
	}

	_, err = s.db.Exec(`
		UPDATE registrations SET status = ?, notes = ?, approved_at = ?, approved_by = ?
		WHERE id = ?`,
		string(r.Status), nullStr(r.Notes), nullUnix(r.ApprovedAt), nullInt(r.ApprovedBy), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}
	return r, nil
}

func scanRegistration(sc scanner) (*Registration, error) {
	var r Registration
	var partnerID, approvedBy, approvedAt sql.NullInt64
	var notes sql.NullString
	var registeredAt int64

	err := sc.Scan(&r.ID, &r.TournamentID, &r.AthleteID, &r.Category, &partnerID, &r.Status,
		&r.SkillLevel, &notes, &registeredAt, &approvedAt, &approvedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	r.PartnerID = intPtr(partnerID)
	r.Notes = strPtr(notes)
	r.RegisteredAt = time.Unix(registeredAt, 0).UTC()
	r.ApprovedAt = timePtr(approvedAt)
	r.ApprovedBy = intPtr(approvedBy)
	return &r, nil
}
