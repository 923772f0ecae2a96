package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/huytran-vn/picklepro/internal/scoring"
	"github.com/huytran-vn/picklepro/internal/store"
)

type createMatchRequest struct {
	TournamentID  int64   `json:"tournament_id"`
	Category      string  `json:"category"`
	Round         string  `json:"round"`
	Player1ID     int64   `json:"player1_id"`
	Player2ID     *int64  `json:"player2_id,omitempty"`
	Partner1ID    *int64  `json:"partner1_id,omitempty"`
	Partner2ID    *int64  `json:"partner2_id,omitempty"`
	Court         *string `json:"court,omitempty"`
	ScheduledTime *string `json:"scheduled_time,omitempty"`
	RefereeID     *int64  `json:"referee_id,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

func (req *createMatchRequest) parse() (*store.NewMatch, error) {
	if req.TournamentID == 0 || req.Player1ID == 0 {
		return nil, errors.New("tournament_id and player1_id are required")
	}
	if req.Category == "" || req.Round == "" {
		return nil, errors.New("category and round are required")
	}
	newMatch := &store.NewMatch{
		TournamentID: req.TournamentID,
		Category:     req.Category,
		Round:        req.Round,
		Player1ID:    req.Player1ID,
		Player2ID:    req.Player2ID,
		Partner1ID:   req.Partner1ID,
		Partner2ID:   req.Partner2ID,
		Court:        req.Court,
		Status:       store.MatchScheduled,
		RefereeID:    req.RefereeID,
		Notes:        req.Notes,
	}
	if req.ScheduledTime != nil {
		scheduled, err := time.Parse(time.RFC3339, *req.ScheduledTime)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduled_time: %w", err)
		}
		newMatch.ScheduledTime = &scheduled
	}
	return newMatch, nil
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMatchRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		newMatch, err := req.parse()
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := s.Store.GetTournament(newMatch.TournamentID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusBadRequest, "unknown tournament")
				return
			}
			storeError(w, err, "tournament")
			return
		}
		match, err := s.Store.CreateMatch(*newMatch)
		if err != nil {
			storeError(w, err, "match")
			return
		}
		log.Info("Match created", "match", match.ID, "tournament", match.TournamentID, "round", match.Round)
		respondJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid match id")
			return
		}
		match, err := s.Store.GetMatch(id)
		if err != nil {
			storeError(w, err, "match")
			return
		}
		respondJSON(w, http.StatusOK, match)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw := r.URL.Query().Get("tournament_id"); raw != "" {
			id, err := parseID(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid tournament_id")
				return
			}
			matches, err := s.Store.GetMatchesByTournament(id)
			if err != nil {
				storeError(w, err, "matches")
				return
			}
			respondJSON(w, http.StatusOK, matches)
			return
		}
		matches, err := s.Store.GetAllMatches()
		if err != nil {
			storeError(w, err, "matches")
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) ListLiveMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.GetLiveMatches()
		if err != nil {
			storeError(w, err, "matches")
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

type updateScoreRequest struct {
	Score  store.Score `json:"score"`
	Status string      `json:"status"`
}

// UpdateScoreHandler applies a structured score update to a match. Winner
// determination and validation live in the scoring engine; the handler only
// translates errors to status codes.
func (s *Server) UpdateScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid match id")
			return
		}
		var req updateScoreRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Status == "" {
			respondError(w, http.StatusBadRequest, "status is required")
			return
		}

		match, err := s.Scoring.ApplyScoreUpdate(id, req.Score, store.MatchStatus(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, scoring.ErrMatchNotFound):
				respondError(w, http.StatusNotFound, "match not found")
			case errors.Is(err, scoring.ErrInvalidSetScore), errors.Is(err, scoring.ErrUnsupportedStatus):
				respondError(w, http.StatusBadRequest, err.Error())
			default:
				log.Error("Score update failed", "match", id, "error", err)
				respondError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}
		respondJSON(w, http.StatusOK, match)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Leaderboard.ComputeLeaderboard()
		if err != nil {
			log.Error("Failed to compute leaderboard", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Leaderboard.ComputeStats()
		if err != nil {
			log.Error("Failed to compute stats", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

type createAchievementRequest struct {
	AthleteID    int64  `json:"athlete_id"`
	TournamentID int64  `json:"tournament_id"`
	Category     string `json:"category"`
	Position     int    `json:"position"`
	Points       int    `json:"points"`
}

func (s *Server) CreateAchievementHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAchievementRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.AthleteID == 0 || req.TournamentID == 0 || req.Category == "" {
			respondError(w, http.StatusBadRequest, "athlete_id, tournament_id and category are required")
			return
		}
		if req.Position < 1 {
			respondError(w, http.StatusBadRequest, "position must be at least 1")
			return
		}
		if req.Points < 0 {
			respondError(w, http.StatusBadRequest, "points must not be negative")
			return
		}
		achievement, err := s.Store.CreateAchievement(store.NewAchievement{
			AthleteID:    req.AthleteID,
			TournamentID: req.TournamentID,
			Category:     req.Category,
			Position:     req.Position,
			Points:       req.Points,
		})
		if err != nil {
			storeError(w, err, "achievement")
			return
		}
		log.Info("Achievement recorded", "achievement", achievement.ID, "athlete", achievement.AthleteID, "points", achievement.Points)
		respondJSON(w, http.StatusCreated, achievement)
	}
}

func (s *Server) ListAchievementsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid athlete id")
			return
		}
		achievements, err := s.Store.GetAchievementsByAthlete(id)
		if err != nil {
			storeError(w, err, "achievements")
			return
		}
		respondJSON(w, http.StatusOK, achievements)
	}
}
