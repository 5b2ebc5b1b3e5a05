// Package playback drives a frame store from a periodic clock and
// forwards newly displayed frames to a consumer callback.
package playback

import (
	"image"
	"sync"
	"time"

	"github.com/user/frameplay/pkg/framestore"
	"github.com/user/frameplay/pkg/ports"
)

// FrameCallback receives the newly current frame image each time the
// displayed frame changes. The image is only valid for the duration of
// the call.
type FrameCallback func(img image.Image)

// Scheduler owns the clock subscription and the start/stop lifecycle of
// one animation. It holds at most one frame store at a time; Prepare
// replaces it, Reset discards it.
//
// States: Idle (no store), Ready (store, not running), Running. Stop and
// a reached loop limit return to Ready; Reset returns to Idle from any
// state.
//
// The scheduler does not own frame image memory; it forwards references
// obtained from the store for one callback invocation.
type Scheduler struct {
	clock    ports.Clock
	decoder  ports.AnimationDecoder
	renderer ports.Renderer
	logger   ports.Logger
	onFrame  FrameCallback

	mu      sync.Mutex
	store   *framestore.Store
	running bool
}

// NewScheduler creates a scheduler. The clock is owned by the scheduler
// for the lifetime of a subscription; the clock only ever holds a
// non-owning listener reference back.
func NewScheduler(clock ports.Clock, decoder ports.AnimationDecoder, renderer ports.Renderer, logger ports.Logger, onFrame FrameCallback) *Scheduler {
	return &Scheduler{
		clock:    clock,
		decoder:  decoder,
		renderer: renderer,
		logger:   logger.WithComponent("playback"),
		onFrame:  onFrame,
	}
}

// Prepare stops any active playback, discards the previous store and
// builds a fresh one for the source. onReady fires once the new store's
// initial buffer window is resident.
func (sc *Scheduler) Prepare(source ports.Source, onReady func()) {
	sc.Stop()

	store := framestore.New(sc.decoder, sc.renderer, sc.logger)
	sc.mu.Lock()
	old := sc.store
	sc.store = store
	sc.mu.Unlock()

	if old != nil {
		old.Close()
	}
	store.Prepare(source, onReady)
}

// Start subscribes to the clock. No-op if already running, if no store
// has been prepared, or if the store is not animatable.
func (sc *Scheduler) Start() {
	sc.mu.Lock()
	store := sc.store
	if sc.running || store == nil {
		sc.mu.Unlock()
		return
	}
	if !store.IsAnimatable() {
		sc.mu.Unlock()
		sc.logger.Debug("start ignored, source not animatable")
		return
	}
	sc.running = true
	sc.mu.Unlock()

	sc.clock.Subscribe(sc)
	sc.logger.Debug("playback started")
}

// Stop cancels the clock subscription. Idempotent; safe to call from
// the clock's own tick.
func (sc *Scheduler) Stop() {
	sc.mu.Lock()
	if !sc.running {
		sc.mu.Unlock()
		return
	}
	sc.running = false
	sc.mu.Unlock()

	sc.clock.Unsubscribe()
	sc.logger.Debug("playback stopped")
}

// Reset stops playback and discards the store, releasing all buffered
// frame memory. Start becomes a no-op until the next Prepare.
func (sc *Scheduler) Reset() {
	sc.Stop()

	sc.mu.Lock()
	store := sc.store
	sc.store = nil
	sc.mu.Unlock()

	if store != nil {
		store.Close()
	}
}

// OnClockTick implements ports.TickListener. It never blocks: one
// advance decision and a cache lookup per tick. A buffer miss skips the
// tick silently; the next tick retries.
func (sc *Scheduler) OnClockTick(elapsed time.Duration) {
	sc.mu.Lock()
	store := sc.store
	running := sc.running
	sc.mu.Unlock()
	if !running || store == nil {
		return
	}

	if store.IsFinished() {
		sc.Stop()
		return
	}
	if !store.ShouldChangeFrame(elapsed) {
		return
	}
	img, ok := store.CurrentFrameImage()
	if !ok {
		sc.logger.Debug("buffer miss at frame %d", store.CurrentIndex())
		return
	}
	if sc.onFrame != nil {
		sc.onFrame(img)
	}
}

// IsAnimating reports whether the scheduler is currently running.
func (sc *Scheduler) IsAnimating() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.running
}

// IsFinished reports whether the store's finite loop count has been
// reached. False when no store is prepared.
func (sc *Scheduler) IsFinished() bool {
	if store := sc.currentStore(); store != nil {
		return store.IsFinished()
	}
	return false
}

// IsAnimatable reports whether a prepared store can be played.
func (sc *Scheduler) IsAnimatable() bool {
	if store := sc.currentStore(); store != nil {
		return store.IsAnimatable()
	}
	return false
}

// CurrentFrameImage returns the image at the store's cursor, if
// buffered.
func (sc *Scheduler) CurrentFrameImage() (image.Image, bool) {
	if store := sc.currentStore(); store != nil {
		return store.CurrentFrameImage()
	}
	return nil, false
}

// FrameCount returns the prepared store's frame count, or 0.
func (sc *Scheduler) FrameCount() int {
	if store := sc.currentStore(); store != nil {
		return store.FrameCount()
	}
	return 0
}

// LoopDuration returns the duration of one full playback pass, or 0.
func (sc *Scheduler) LoopDuration() time.Duration {
	if store := sc.currentStore(); store != nil {
		return store.LoopDuration()
	}
	return 0
}

func (sc *Scheduler) currentStore() *framestore.Store {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.store
}

var _ ports.TickListener = (*Scheduler)(nil)
