package registration

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

var (
	// ErrAlreadyDecided is returned when approving or rejecting a
	// registration that is no longer pending.
	ErrAlreadyDecided = errors.New("registration has already been decided")
	// ErrTournamentFull is returned when approving would exceed the
	// tournament's participant cap.
	ErrTournamentFull = errors.New("tournament is full")
	// ErrUnknownAthlete is returned when the referenced athlete does not
	// exist or does not hold the athlete role.
	ErrUnknownAthlete = errors.New("unknown athlete")
	// ErrUnknownTournament is returned when the referenced tournament does
	// not exist.
	ErrUnknownTournament = errors.New("unknown tournament")
)

// Workflow drives the registration lifecycle: athletes submit, organizers
// approve or reject, and every decision is a one-shot transition out of
// pending.
type Workflow struct {
	store    store.TournamentStore
	metrics  metrics.Metrics
	events   events.Publisher
	notifier notifier.Notifier
}

// New creates a new registration Workflow.
func New(st store.TournamentStore, metricsSvc metrics.Metrics, publisher events.Publisher, notifierSvc notifier.Notifier) *Workflow {
	return &Workflow{
		store:    st,
		metrics:  metricsSvc,
		events:   publisher,
		notifier: notifierSvc,
	}
}

// DecisionEvent is the payload published when a registration is decided.
type DecisionEvent struct {
	RegistrationID int64                    `msgpack:"registration_id" json:"registration_id"`
	TournamentID   int64                    `msgpack:"tournament_id" json:"tournament_id"`
	AthleteID      int64                    `msgpack:"athlete_id" json:"athlete_id"`
	Status         store.RegistrationStatus `msgpack:"status" json:"status"`
	DecidedBy      int64                    `msgpack:"decided_by" json:"decided_by"`
}

// Create submits a new registration. The status is always pending regardless
// of what the caller supplied, and both the athlete and the tournament must
// exist before anything is written.
func (w *Workflow) Create(reg store.NewRegistration) (*store.Registration, error) {
	athlete, err := w.store.GetUser(reg.AthleteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownAthlete
		}
		return nil, fmt.Errorf("looking up athlete: %w", err)
	}
	if athlete.Role != store.RoleAthlete {
		return nil, ErrUnknownAthlete
	}
	if _, err := w.store.GetTournament(reg.TournamentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownTournament
		}
		return nil, fmt.Errorf("looking up tournament: %w", err)
	}

	// Submissions always start pending, never in a caller-chosen state.
	reg.Status = store.RegistrationPending
	created, err := w.store.CreateRegistration(reg)
	if err != nil {
		return nil, err
	}
	log.Info("Registration submitted", "registration", created.ID, "athlete", reg.AthleteID, "tournament", reg.TournamentID)
	return created, nil
}

// Approve moves a pending registration to approved, stamping the decision
// time and deciding organizer, and bumps the tournament's participant count.
// A registration that has already been decided cannot be approved again.
func (w *Workflow) Approve(id, approverID int64, dryRun bool) (*store.Registration, error) {
	reg, err := w.store.GetRegistration(id)
	if err != nil {
		return nil, err
	}
	if reg.Status != store.RegistrationPending {
		return nil, ErrAlreadyDecided
	}

	tournament, err := w.store.GetTournament(reg.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("looking up tournament: %w", err)
	}
	if tournament.CurrentParticipants >= tournament.MaxParticipants {
		w.metrics.IncRegistrationsDecided("rejected")
		return nil, ErrTournamentFull
	}

	status := store.RegistrationApproved
	approvedAt := time.Now().UTC().Truncate(time.Second)
	updated, err := w.store.UpdateRegistration(id, store.RegistrationUpdate{
		Status:     &status,
		ApprovedAt: &approvedAt,
		ApprovedBy: &approverID,
	})
	if err != nil {
		return nil, err
	}

	participants := tournament.CurrentParticipants + 1
	if _, err := w.store.UpdateTournament(tournament.ID, store.TournamentUpdate{
		CurrentParticipants: &participants,
	}); err != nil {
		return nil, fmt.Errorf("updating participant count: %w", err)
	}

	w.metrics.IncRegistrationsDecided("approved")
	w.notify(updated, tournament.Name, approverID, dryRun)
	log.Info("Registration approved", "registration", id, "approver", approverID, "tournament", tournament.ID)
	return updated, nil
}

// Reject moves a pending registration to rejected. Like Approve, this is a
// one-shot transition: already-decided registrations are refused.
func (w *Workflow) Reject(id, approverID int64, dryRun bool) (*store.Registration, error) {
	reg, err := w.store.GetRegistration(id)
	if err != nil {
		return nil, err
	}
	if reg.Status != store.RegistrationPending {
		return nil, ErrAlreadyDecided
	}

	// Rejection never stamps the approval fields; those belong to approved
	// registrations only.
	status := store.RegistrationRejected
	updated, err := w.store.UpdateRegistration(id, store.RegistrationUpdate{
		Status: &status,
	})
	if err != nil {
		return nil, err
	}

	w.metrics.IncRegistrationsDecided("rejected")
	tournamentName := ""
	if tournament, err := w.store.GetTournament(reg.TournamentID); err == nil {
		tournamentName = tournament.Name
	}
	w.notify(updated, tournamentName, approverID, dryRun)
	log.Info("Registration rejected", "registration", id, "approver", approverID)
	return updated, nil
}

// notify publishes the decision event and sends the decision notification.
// Failures are logged without failing the decision itself; the decision is
// already persisted.
func (w *Workflow) notify(reg *store.Registration, tournamentName string, decidedBy int64, dryRun bool) {
	event := DecisionEvent{
		RegistrationID: reg.ID,
		TournamentID:   reg.TournamentID,
		AthleteID:      reg.AthleteID,
		Status:         reg.Status,
		DecidedBy:      decidedBy,
	}
	if err := w.events.Publish(events.TopicRegistrationDecision, event); err != nil {
		log.Error("Failed to publish registration decision event", "registration", reg.ID, "error", err)
	}

	if err := w.notifier.SendRegistrationDecision(reg, tournamentName, dryRun); err != nil {
		log.Error("Failed to send registration decision notification", "registration", reg.ID, "error", err)
	}
}
