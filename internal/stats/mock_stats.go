package stats

import "github.com/stretchr/testify/mock"

// MockStatsUpdater is a testify double for StatsProvider, used by the hub and
// API tests to pin down exactly which metrics an operation touches.
type MockStatsUpdater struct {
	mock.Mock
}

func (m *MockStatsUpdater) Incr(name string) {
	m.Called(name)
}

func (m *MockStatsUpdater) Decr(name string) {
	m.Called(name)
}

func (m *MockStatsUpdater) RegisterMetric(name string) {
	m.Called(name)
}

func (m *MockStatsUpdater) Run() {
	m.Called()
}
