package scoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/huytran-vn/picklepro/internal/events"
	"github.com/huytran-vn/picklepro/internal/metrics"
	"github.com/huytran-vn/picklepro/internal/notifier"
	"github.com/huytran-vn/picklepro/internal/store"
)

// Engine validates and applies score updates to matches.
type Engine struct {
	store    store.TournamentStore
	metrics  metrics.Metrics
	events   events.Publisher
	notifier notifier.Notifier
}

// New creates a new Engine.
func New(st store.TournamentStore, metricsSvc metrics.Metrics, publisher events.Publisher, notif notifier.Notifier) *Engine {
	return &Engine{
		store:    st,
		metrics:  metricsSvc,
		events:   publisher,
		notifier: notif,
	}
}

// MatchResultEvent is the payload published when a match completes with a
// decided winner.
type MatchResultEvent struct {
	MatchID      int64            `msgpack:"match_id" json:"match_id"`
	TournamentID int64            `msgpack:"tournament_id" json:"tournament_id"`
	Category     string           `msgpack:"category" json:"category"`
	Round        string           `msgpack:"round" json:"round"`
	WinnerID     int64            `msgpack:"winner_id" json:"winner_id"`
	Sets         []store.SetScore `msgpack:"sets" json:"sets"`
}

// ApplyScoreUpdate replaces the match's score with newScore and moves it to
// newStatus. The update is rejected, with no field modified, if any set score
// is illegal, the status is not in_progress or completed, or the match does
// not exist. On completion the persisted winner is computed from the set
// record by the majority rule; a winner claimed in the inbound score is
// ignored, and in_progress updates never set one. A
// status of completed with no majority winner is accepted and leaves the
// winner unset, which callers can observe as an ambiguous completion.
func (e *Engine) ApplyScoreUpdate(matchID int64, newScore store.Score, newStatus store.MatchStatus) (*store.Match, error) {
	startTime := time.Now()
	defer func() {
		e.metrics.ObserveScoreUpdateDuration(time.Since(startTime).Seconds())
	}()

	if newStatus != store.MatchInProgress && newStatus != store.MatchCompleted {
		e.metrics.IncScoreUpdatesRejected()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStatus, newStatus)
	}

	for i, set := range newScore.Sets {
		if err := ValidateSet(set); err != nil {
			e.metrics.IncScoreUpdatesRejected()
			return nil, fmt.Errorf("set %d: %w", i+1, err)
		}
	}

	match, err := e.store.GetMatch(matchID)
	if err != nil {
		e.metrics.IncScoreUpdatesRejected()
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMatchNotFound, matchID)
		}
		return nil, err
	}

	upd := store.MatchUpdate{
		Score:  &newScore,
		Status: &newStatus,
	}

	// A winner is only ever recorded on a completed match, and always from
	// the set record, never from the inbound payload.
	if newStatus == store.MatchCompleted {
		switch DetermineWinner(newScore.Sets) {
		case SidePlayer1:
			upd.WinnerID = &match.Player1ID
		case SidePlayer2:
			if match.Player2ID == nil {
				log.Warn("Set record decides for player 2 but the match has no player 2, leaving winner unset", "matchID", matchID)
			} else {
				upd.WinnerID = match.Player2ID
			}
		}
	}

	updated, err := e.store.UpdateMatch(matchID, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to persist score update: %w", err)
	}
	e.metrics.IncScoreUpdatesApplied()

	if newStatus == store.MatchCompleted {
		if updated.WinnerID == nil {
			log.Warn("Match completed without a majority winner", "matchID", matchID, "sets", len(newScore.Sets))
		} else {
			e.announceResult(updated)
		}
	}
	return updated, nil
}

// announceResult publishes the result event and sends the result
// notification. Failures are logged but do not fail the score update; the
// score is already persisted.
func (e *Engine) announceResult(match *store.Match) {
	event := MatchResultEvent{
		MatchID:      match.ID,
		TournamentID: match.TournamentID,
		Category:     match.Category,
		Round:        match.Round,
		WinnerID:     *match.WinnerID,
	}
	if match.Score != nil {
		event.Sets = match.Score.Sets
	}
	if err := e.events.Publish(events.TopicMatchResult, event); err != nil {
		log.Error("Failed to publish match result event", "error", err, "matchID", match.ID)
	}

	if err := e.notifier.SendResultNotification(match, e.playerNames(match), false); err != nil {
		log.Error("Failed to send result notification", "error", err, "matchID", match.ID)
	}
}

func (e *Engine) playerNames(match *store.Match) map[int64]string {
	names := make(map[int64]string)
	ids := []*int64{&match.Player1ID, match.Player2ID, match.Partner1ID, match.Partner2ID}
	for _, id := range ids {
		if id == nil {
			continue
		}
		user, err := e.store.GetUser(*id)
		if err != nil {
			log.Debug("Could not resolve player name", "userID", *id, "error", err)
			names[*id] = fmt.Sprintf("player %d", *id)
			continue
		}
		names[*id] = user.FullName
	}
	return names
}
