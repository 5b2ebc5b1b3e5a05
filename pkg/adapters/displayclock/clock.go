// Package displayclock provides a wall-clock implementation of the
// playback clock port, backed by a time.Ticker.
package displayclock

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kortschak/goroutine"

	"github.com/user/frameplay/pkg/ports"
)

// DefaultInterval approximates one display refresh at 60Hz.
const DefaultInterval = 16 * time.Millisecond

// Clock delivers periodic ticks carrying measured elapsed time. The
// elapsed value reflects real time between firings, so a delayed tick
// reports the full gap and the listener can catch up.
type Clock struct {
	interval time.Duration
	rate     float64

	mu       sync.Mutex
	listener ports.TickListener
	stop     chan struct{}
	stopped  chan struct{}

	// Goroutine id of the delivery loop, used to keep Unsubscribe safe
	// when called from inside a tick callback.
	tickGID atomic.Int64
}

// New creates a clock firing at the given interval. rate scales the
// reported elapsed time (2.0 plays twice as fast); values <= 0 mean
// normal speed. A non-positive interval falls back to DefaultInterval.
func New(interval time.Duration, rate float64) *Clock {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if rate <= 0 {
		rate = 1.0
	}
	return &Clock{interval: interval, rate: rate}
}

// Subscribe registers the listener and starts the delivery loop.
// No-op if a listener is already subscribed.
func (c *Clock) Subscribe(listener ports.TickListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listener != nil || listener == nil {
		return
	}
	c.listener = listener
	c.stop = make(chan struct{})
	c.stopped = make(chan struct{})
	go c.run(listener, c.stop, c.stopped)
}

// Unsubscribe halts tick delivery. Idempotent. After it returns no
// further ticks are delivered, including when called from within a tick
// callback on the delivery goroutine itself.
func (c *Clock) Unsubscribe() {
	c.mu.Lock()
	if c.listener == nil {
		c.mu.Unlock()
		return
	}
	stop, stopped := c.stop, c.stopped
	c.listener = nil
	c.stop, c.stopped = nil, nil
	c.mu.Unlock()

	close(stop)
	if goroutine.ID() != c.tickGID.Load() {
		<-stopped
	}
}

// IsRunning reports whether a listener is subscribed.
func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener != nil
}

func (c *Clock) run(listener ports.TickListener, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	c.tickGID.Store(goroutine.ID())
	defer c.tickGID.Store(0)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if c.rate != 1.0 {
				elapsed = time.Duration(float64(elapsed) * c.rate)
			}
			select {
			case <-stop:
				return
			default:
			}
			listener.OnClockTick(elapsed)
		}
	}
}

// Ensure Clock implements ports.Clock
var _ ports.Clock = (*Clock)(nil)
