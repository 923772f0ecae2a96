package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const clubColumns = "id, name, description, location, contact_email, contact_phone, owner_id, is_active, created_at"

func (s *store) CreateClub(c NewClub) (*Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}
	createdAt := now()

	res, err := s.db.Exec(`
		INSERT INTO clubs (name, description, location, contact_email, contact_phone, owner_id, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, nullStr(c.Description), nullStr(c.Location), nullStr(c.ContactEmail),
		nullStr(c.ContactPhone), nullInt(c.OwnerID), active, createdAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert club: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read club id: %w", err)
	}

	log.Info("Created club", "clubID", id, "name", c.Name)
	return &Club{
		ID:           id,
		Name:         c.Name,
		Description:  c.Description,
		Location:     c.Location,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
		OwnerID:      c.OwnerID,
		IsActive:     active,
		CreatedAt:    createdAt,
	}, nil
}

func (s *store) GetClub(id int64) (*Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+clubColumns+" FROM clubs WHERE id = ?", id)
	return scanClub(row)
}

// GetClubs returns only active clubs.
func (s *store) GetClubs() ([]*Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT " + clubColumns + " FROM clubs WHERE is_active = 1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []*Club
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			log.Error("Failed to scan club row", "error", err)
			continue
		}
		clubs = append(clubs, club)
	}
	return clubs, rows.Err()
}

func scanClub(sc scanner) (*Club, error) {
	var c Club
	var description, location, contactEmail, contactPhone sql.NullString
	var ownerID sql.NullInt64
	var createdAt int64

	err := sc.Scan(&c.ID, &c.Name, &description, &location, &contactEmail, &contactPhone, &ownerID, &c.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	c.Description = strPtr(description)
	c.Location = strPtr(location)
	c.ContactEmail = strPtr(contactEmail)
	c.ContactPhone = strPtr(contactPhone)
	c.OwnerID = intPtr(ownerID)
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &c, nil
}
