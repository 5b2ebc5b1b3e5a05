package ports

import (
	"time"
)

// TickListener receives periodic clock ticks during playback.
type TickListener interface {
	// OnClockTick is called once per clock firing with the elapsed time
	// since the previous firing. Implementations must not block.
	OnClockTick(elapsed time.Duration)
}

// Clock abstracts the periodic callback primitive that paces playback.
// A clock delivers ticks to at most one listener at a time. The clock
// holds a non-owning reference to the listener; the subscriber is
// responsible for unsubscribing on teardown.
type Clock interface {
	// Subscribe registers the listener and begins delivering ticks.
	// No-op if a listener is already subscribed.
	Subscribe(listener TickListener)

	// Unsubscribe stops tick delivery. It is idempotent, and guarantees
	// that no further ticks are delivered after it returns.
	Unsubscribe()

	// IsRunning reports whether a listener is currently subscribed.
	IsRunning() bool
}
