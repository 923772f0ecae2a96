package http

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/huytran-vn/picklepro/internal/store"
)

type registerRequest struct {
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirm_password"`
	FullName        string   `json:"full_name"`
	Role            string   `json:"role"`
	ClubID          *int64   `json:"club_id,omitempty"`
	SkillLevel      *float64 `json:"skill_level,omitempty"`
}

func (req *registerRequest) Validate() error {
	if req.Username == "" || req.Email == "" || req.Password == "" || req.FullName == "" {
		return errors.New("username, email, password and full_name are required")
	}
	if req.Password != req.ConfirmPassword {
		return errors.New("passwords do not match")
	}
	if req.Role == "" {
		req.Role = string(store.RoleAthlete)
	}
	if !store.ValidRole(store.Role(req.Role)) {
		return errors.New("invalid role")
	}
	if req.SkillLevel != nil && !store.ValidSkillLevel(*req.SkillLevel) {
		return errors.New("skill_level must be between 2.0 and 5.5 in half-point steps")
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

// RegisterUserHandler creates a new user account. Usernames and emails are
// unique across the system.
func (s *Server) RegisterUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := req.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		if _, err := s.Store.GetUserByUsername(req.Username); err == nil {
			respondError(w, http.StatusConflict, "username already taken")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			storeError(w, err, "user")
			return
		}
		if _, err := s.Store.GetUserByEmail(req.Email); err == nil {
			respondError(w, http.StatusConflict, "email already registered")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			storeError(w, err, "user")
			return
		}

		user, err := s.Store.CreateUser(store.NewUser{
			Username:   req.Username,
			Email:      req.Email,
			Password:   req.Password,
			FullName:   req.FullName,
			Role:       store.Role(req.Role),
			ClubID:     req.ClubID,
			SkillLevel: req.SkillLevel,
		})
		if err != nil {
			storeError(w, err, "user")
			return
		}

		log.Info("User registered", "user", user.ID, "username", user.Username, "role", user.Role)
		user.Password = ""
		respondJSON(w, http.StatusCreated, user)
	}
}

// LoginHandler checks credentials and issues an opaque session token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Username == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		user, err := s.Store.GetUserByUsername(req.Username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			storeError(w, err, "user")
			return
		}
		if user.Password != req.Password || !user.IsActive {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token := uuid.NewString()
		s.sessionsMu.Lock()
		s.sessions[token] = user.ID
		s.sessionsMu.Unlock()

		log.Info("User logged in", "user", user.ID, "username", user.Username)
		user.Password = ""
		respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
	}
}
