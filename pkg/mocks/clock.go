package mocks

import (
	"sync"
	"time"

	"github.com/user/frameplay/pkg/ports"
)

// Clock is a manually driven ports.Clock. Tests call Tick to deliver
// elapsed time to the subscribed listener.
type Clock struct {
	mu       sync.Mutex
	listener ports.TickListener

	// Recorded calls for verification
	SubscribeCalls   int
	UnsubscribeCalls int
}

func (m *Clock) Subscribe(listener ports.TickListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubscribeCalls++
	if m.listener == nil {
		m.listener = listener
	}
}

func (m *Clock) Unsubscribe() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnsubscribeCalls++
	m.listener = nil
}

func (m *Clock) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listener != nil
}

// Tick delivers one tick to the listener, if any.
func (m *Clock) Tick(elapsed time.Duration) {
	m.mu.Lock()
	listener := m.listener
	m.mu.Unlock()
	if listener != nil {
		listener.OnClockTick(elapsed)
	}
}

// Ensure Clock implements ports.Clock
var _ ports.Clock = (*Clock)(nil)
