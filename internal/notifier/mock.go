package notifier

import (
	"sync"

	"github.com/huytran-vn/picklepro/internal/store"
)

var _ Notifier = (*MockNotifier)(nil)

// MockNotifier is a mock implementation of Notifier for testing.
// It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	// Spies for method calls
	SendResultNotificationFunc   func(match *store.Match, playerNames map[int64]string, dryRun bool) error
	SendRegistrationDecisionFunc func(reg *store.Registration, tournamentName string, dryRun bool) error

	// Call records
	ResultNotificationCalls   []*store.Match
	RegistrationDecisionCalls []*store.Registration
}

// NewMock creates a new mock Notifier.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

// Reset clears all call records.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultNotificationCalls = nil
	m.RegistrationDecisionCalls = nil
}

func (m *MockNotifier) SendResultNotification(match *store.Match, playerNames map[int64]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultNotificationCalls = append(m.ResultNotificationCalls, match)
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(match, playerNames, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendRegistrationDecision(reg *store.Registration, tournamentName string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegistrationDecisionCalls = append(m.RegistrationDecisionCalls, reg)
	if m.SendRegistrationDecisionFunc != nil {
		return m.SendRegistrationDecisionFunc(reg, tournamentName, dryRun)
	}
	return nil
}

// noop drops every notification. Used when no Slack credentials are configured.
type noop struct{}

// NewNoop creates a Notifier that discards all notifications.
func NewNoop() Notifier {
	return noop{}
}

func (noop) SendResultNotification(match *store.Match, playerNames map[int64]string, dryRun bool) error {
	return nil
}

func (noop) SendRegistrationDecision(reg *store.Registration, tournamentName string, dryRun bool) error {
	return nil
}
