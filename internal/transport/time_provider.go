package transport

import (
	"sync"
	"time"
)

// TimeProvider supplies wall time to the clock.
type TimeProvider interface {
	Now() time.Time
}

type monotonicTimeProvider struct{}

// NewMonotonicTimeProvider returns a provider backed by time.Now, whose
// readings carry the monotonic clock.
func NewMonotonicTimeProvider() TimeProvider { return monotonicTimeProvider{} }

func (monotonicTimeProvider) Now() time.Time { return time.Now() }

// MockTimeProvider provides a controllable time source for testing
type MockTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{currentTime: startTime}
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Advance moves the mocked time forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// AdvanceSeconds moves the mocked time forward by s seconds
func (m *MockTimeProvider) AdvanceSeconds(s float64) {
	m.Advance(time.Duration(s * float64(time.Second)))
}
