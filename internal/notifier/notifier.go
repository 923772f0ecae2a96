package notifier

import (
	"github.com/huytran-vn/picklepro/internal/store"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For matches completed with a decided winner
	SendResultNotification(match *store.Match, playerNames map[int64]string, dryRun bool) error
	// For approved or rejected registrations
	SendRegistrationDecision(reg *store.Registration, tournamentName string, dryRun bool) error
}
