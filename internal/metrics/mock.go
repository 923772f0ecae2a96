package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is an in-memory Metrics implementation for tests.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	ScoreUpdatesAppliedCount  int
	ScoreUpdatesRejectedCount int
	ScoreUpdateDurations      []float64
	RegistrationsDecidedCount map[string]int
	LeaderboardComputedCount  int
	StartupTime               float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		RegistrationsDecidedCount: make(map[string]int),
	}
}

func (m *Mock) IncScoreUpdatesApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoreUpdatesAppliedCount++
}

func (m *Mock) IncScoreUpdatesRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoreUpdatesRejectedCount++
}

func (m *Mock) ObserveScoreUpdateDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoreUpdateDurations = append(m.ScoreUpdateDurations, duration)
}

func (m *Mock) IncRegistrationsDecided(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegistrationsDecidedCount[outcome]++
}

func (m *Mock) IncLeaderboardComputations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LeaderboardComputedCount++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTime = duration
}
