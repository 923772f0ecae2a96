package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/huytran-vn/picklepro/internal/registration"
	"github.com/huytran-vn/picklepro/internal/store"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		user, err := s.Store.GetUser(id)
		if err != nil {
			storeError(w, err, "user")
			return
		}
		user.Password = ""
		respondJSON(w, http.StatusOK, user)
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := store.Role(r.URL.Query().Get("role"))
		if role == "" {
			role = store.RoleAthlete
		}
		if !store.ValidRole(role) {
			respondError(w, http.StatusBadRequest, "invalid role")
			return
		}
		users, err := s.Store.GetUsersByRole(role)
		if err != nil {
			storeError(w, err, "users")
			return
		}
		for i := range users {
			users[i].Password = ""
		}
		respondJSON(w, http.StatusOK, users)
	}
}

type updateUserRequest struct {
	FullName   *string  `json:"full_name,omitempty"`
	Phone      *string  `json:"phone,omitempty"`
	ClubID     *int64   `json:"club_id,omitempty"`
	SkillLevel *float64 `json:"skill_level,omitempty"`
	IsActive   *bool    `json:"is_active,omitempty"`
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		var req updateUserRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.SkillLevel != nil && !store.ValidSkillLevel(*req.SkillLevel) {
			respondError(w, http.StatusBadRequest, "skill_level must be between 2.0 and 5.5 in half-point steps")
			return
		}
		user, err := s.Store.UpdateUser(id, store.UserUpdate{
			FullName:   req.FullName,
			Phone:      req.Phone,
			ClubID:     req.ClubID,
			SkillLevel: req.SkillLevel,
			IsActive:   req.IsActive,
		})
		if err != nil {
			storeError(w, err, "user")
			return
		}
		user.Password = ""
		respondJSON(w, http.StatusOK, user)
	}
}

type createClubRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Location     *string `json:"location,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	OwnerID      *int64  `json:"owner_id,omitempty"`
}

func (s *Server) CreateClubHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createClubRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Name == "" {
			respondError(w, http.StatusBadRequest, "name is required")
			return
		}
		club, err := s.Store.CreateClub(store.NewClub{
			Name:         req.Name,
			Description:  req.Description,
			Location:     req.Location,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
			OwnerID:      req.OwnerID,
		})
		if err != nil {
			storeError(w, err, "club")
			return
		}
		log.Info("Club created", "club", club.ID, "name", club.Name)
		respondJSON(w, http.StatusCreated, club)
	}
}

func (s *Server) GetClubHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid club id")
			return
		}
		club, err := s.Store.GetClub(id)
		if err != nil {
			storeError(w, err, "club")
			return
		}
		respondJSON(w, http.StatusOK, club)
	}
}

func (s *Server) ListClubsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubs, err := s.Store.GetClubs()
		if err != nil {
			storeError(w, err, "clubs")
			return
		}
		respondJSON(w, http.StatusOK, clubs)
	}
}

type createTournamentRequest struct {
	Name                  string   `json:"name"`
	Description           *string  `json:"description,omitempty"`
	Location              string   `json:"location"`
	StartDate             string   `json:"start_date"`
	EndDate               string   `json:"end_date"`
	RegistrationStartDate string   `json:"registration_start_date"`
	RegistrationEndDate   string   `json:"registration_end_date"`
	MaxParticipants       *int     `json:"max_participants,omitempty"`
	Categories            []string `json:"categories"`
	OrganizerID           int64    `json:"organizer_id"`
}

func (req *createTournamentRequest) parse() (*store.NewTournament, error) {
	if req.Name == "" || req.Location == "" {
		return nil, errors.New("name and location are required")
	}
	if req.OrganizerID == 0 {
		return nil, errors.New("organizer_id is required")
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}
	regStart, err := time.Parse(time.RFC3339, req.RegistrationStartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid registration_start_date: %w", err)
	}
	regEnd, err := time.Parse(time.RFC3339, req.RegistrationEndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid registration_end_date: %w", err)
	}
	if end.Before(start) {
		return nil, errors.New("end_date must not precede start_date")
	}
	if regEnd.Before(regStart) {
		return nil, errors.New("registration_end_date must not precede registration_start_date")
	}
	if regEnd.After(start) {
		return nil, errors.New("registration must close on or before the tournament start")
	}
	return &store.NewTournament{
		Name:                  req.Name,
		Description:           req.Description,
		Location:              req.Location,
		StartDate:             start,
		EndDate:               end,
		RegistrationStartDate: regStart,
		RegistrationEndDate:   regEnd,
		MaxParticipants:       req.MaxParticipants,
		Categories:            req.Categories,
		Status:                store.TournamentUpcoming,
		OrganizerID:           req.OrganizerID,
	}, nil
}

func (s *Server) CreateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTournamentRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		newTournament, err := req.parse()
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := s.Store.GetUser(newTournament.OrganizerID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusBadRequest, "unknown organizer")
				return
			}
			storeError(w, err, "organizer")
			return
		}
		tournament, err := s.Store.CreateTournament(*newTournament)
		if err != nil {
			storeError(w, err, "tournament")
			return
		}
		log.Info("Tournament created", "tournament", tournament.ID, "name", tournament.Name)
		respondJSON(w, http.StatusCreated, tournament)
	}
}

func (s *Server) GetTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid tournament id")
			return
		}
		tournament, err := s.Store.GetTournament(id)
		if err != nil {
			storeError(w, err, "tournament")
			return
		}
		respondJSON(w, http.StatusOK, tournament)
	}
}

func (s *Server) ListTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if status := r.URL.Query().Get("status"); status != "" {
			if !store.ValidTournamentStatus(store.TournamentStatus(status)) {
				respondError(w, http.StatusBadRequest, "invalid status")
				return
			}
			tournaments, err := s.Store.GetTournamentsByStatus(store.TournamentStatus(status))
			if err != nil {
				storeError(w, err, "tournaments")
				return
			}
			respondJSON(w, http.StatusOK, tournaments)
			return
		}
		tournaments, err := s.Store.GetTournaments()
		if err != nil {
			storeError(w, err, "tournaments")
			return
		}
		respondJSON(w, http.StatusOK, tournaments)
	}
}

type updateTournamentRequest struct {
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Status          *string   `json:"status,omitempty"`
	MaxParticipants *int      `json:"max_participants,omitempty"`
	Categories      *[]string `json:"categories,omitempty"`
	IsActive        *bool     `json:"is_active,omitempty"`
}

func (s *Server) UpdateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid tournament id")
			return
		}
		var req updateTournamentRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		update := store.TournamentUpdate{
			Name:            req.Name,
			Description:     req.Description,
			Location:        req.Location,
			MaxParticipants: req.MaxParticipants,
			Categories:      req.Categories,
			IsActive:        req.IsActive,
		}
		if req.Status != nil {
			status := store.TournamentStatus(*req.Status)
			if !store.ValidTournamentStatus(status) {
				respondError(w, http.StatusBadRequest, "invalid status")
				return
			}
			update.Status = &status
		}
		tournament, err := s.Store.UpdateTournament(id, update)
		if err != nil {
			storeError(w, err, "tournament")
			return
		}
		respondJSON(w, http.StatusOK, tournament)
	}
}

type createRegistrationRequest struct {
	TournamentID int64   `json:"tournament_id"`
	AthleteID    int64   `json:"athlete_id"`
	Category     string  `json:"category"`
	PartnerID    *int64  `json:"partner_id,omitempty"`
	SkillLevel   float64 `json:"skill_level"`
	Notes        *string `json:"notes,omitempty"`
}

func (s *Server) CreateRegistrationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRegistrationRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.TournamentID == 0 || req.AthleteID == 0 || req.Category == "" {
			respondError(w, http.StatusBadRequest, "tournament_id, athlete_id and category are required")
			return
		}
		reg, err := s.Registrations.Create(store.NewRegistration{
			TournamentID: req.TournamentID,
			AthleteID:    req.AthleteID,
			Category:     req.Category,
			PartnerID:    req.PartnerID,
			SkillLevel:   req.SkillLevel,
			Notes:        req.Notes,
		})
		if err != nil {
			registrationError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, reg)
	}
}

func (s *Server) ListRegistrationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("pending") == "true" {
			regs, err := s.Store.GetPendingRegistrations()
			if err != nil {
				storeError(w, err, "registrations")
				return
			}
			respondJSON(w, http.StatusOK, regs)
			return
		}
		if raw := query.Get("tournament_id"); raw != "" {
			id, err := parseID(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid tournament_id")
				return
			}
			regs, err := s.Store.GetRegistrationsByTournament(id)
			if err != nil {
				storeError(w, err, "registrations")
				return
			}
			respondJSON(w, http.StatusOK, regs)
			return
		}
		if raw := query.Get("athlete_id"); raw != "" {
			id, err := parseID(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid athlete_id")
				return
			}
			regs, err := s.Store.GetRegistrationsByAthlete(id)
			if err != nil {
				storeError(w, err, "registrations")
				return
			}
			respondJSON(w, http.StatusOK, regs)
			return
		}
		respondError(w, http.StatusBadRequest, "one of pending, tournament_id or athlete_id is required")
	}
}

type decideRegistrationRequest struct {
	ApproverID int64 `json:"approver_id"`
}

func (s *Server) ApproveRegistrationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid registration id")
			return
		}
		var req decideRegistrationRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.ApproverID == 0 {
			respondError(w, http.StatusBadRequest, "approver_id is required")
			return
		}
		reg, err := s.Registrations.Approve(id, req.ApproverID, isDryRunFromContext(r))
		if err != nil {
			registrationError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, reg)
	}
}

func (s *Server) RejectRegistrationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid registration id")
			return
		}
		var req decideRegistrationRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.ApproverID == 0 {
			respondError(w, http.StatusBadRequest, "approver_id is required")
			return
		}
		reg, err := s.Registrations.Reject(id, req.ApproverID, isDryRunFromContext(r))
		if err != nil {
			registrationError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, reg)
	}
}

// registrationError maps workflow errors to HTTP responses.
func registrationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registration.ErrAlreadyDecided):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, registration.ErrTournamentFull):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, registration.ErrUnknownAthlete), errors.Is(err, registration.ErrUnknownTournament):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "registration not found")
	default:
		log.Error("Registration operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
