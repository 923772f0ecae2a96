package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const userColumns = "id, username, password, email, full_name, phone, role, club_id, skill_level, is_active, created_at"

func (s *store) CreateUser(u NewUser) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := true
	if u.IsActive != nil {
		active = *u.IsActive
	}
	createdAt := now()

	res, err := s.db.Exec(`
		INSERT INTO users (username, password, email, full_name, phone, role, club_id, skill_level, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Password, u.Email, u.FullName, nullStr(u.Phone), string(u.Role),
		nullInt(u.ClubID), nullFloat(u.SkillLevel), active, createdAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}

	log.Info("Created user", "userID", id, "username", u.Username, "role", u.Role)
	return &User{
		ID:         id,
		Username:   u.Username,
		Password:   u.Password,
		Email:      u.Email,
		FullName:   u.FullName,
		Phone:      u.Phone,
		Role:       u.Role,
		ClubID:     u.ClubID,
		SkillLevel: u.SkillLevel,
		IsActive:   active,
		CreatedAt:  createdAt,
	}, nil
}

func (s *store) GetUser(id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getUser(id)
}

func (s *store) getUser(id int64) (*User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

func (s *store) GetUserByUsername(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return scanUser(row)
}

func (s *store) GetUserByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// UpdateUser merges the supplied fields into the stored record. Fields left
// nil are preserved.
func (s *store) UpdateUser(id int64, upd UserUpdate) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.getUser(id)
	if err != nil {
		return nil, err
	}

	if upd.Password != nil {
		user.Password = *upd.Password
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.FullName != nil {
		user.FullName = *upd.FullName
	}
	if upd.Phone != nil {
		user.Phone = upd.Phone
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.ClubID != nil {
		user.ClubID = upd.ClubID
	}
	if upd.SkillLevel != nil {
		user.SkillLevel = upd.SkillLevel
	}
	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
	}

	_, err = s.db.Exec(`
		UPDATE users SET password = ?, email = ?, full_name = ?, phone = ?, role = ?, club_id = ?, skill_level = ?, is_active = ?
		WHERE id = ?`,
		user.Password, user.Email, user.FullName, nullStr(user.Phone), string(user.Role),
		nullInt(user.ClubID), nullFloat(user.SkillLevel), user.IsActive, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *store) GetUsersByRole(role Role) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT "+userColumns+" FROM users WHERE role = ? ORDER BY id", string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Error("Failed to scan user row", "error", err)
			continue
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(sc scanner) (*User, error) {
	var u User
	var phone sql.NullString
	var clubID sql.NullInt64
	var skillLevel sql.NullFloat64
	var createdAt int64

	err := sc.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.FullName, &phone, &u.Role, &clubID, &skillLevel, &u.IsActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	u.Phone = strPtr(phone)
	u.ClubID = intPtr(clubID)
	u.SkillLevel = floatPtr(skillLevel)
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}
