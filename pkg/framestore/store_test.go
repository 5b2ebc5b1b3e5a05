package framestore

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/user/frameplay/pkg/adapters/logger"
	"github.com/user/frameplay/pkg/mocks"
	"github.com/user/frameplay/pkg/ports"
)

// newTestStore prepares a store over a mock animation and blocks until
// the initial buffer window has been processed.
func newTestStore(t *testing.T, anim *mocks.Animation, source ports.Source) *Store {
	t.Helper()
	decoder := &mocks.AnimationDecoder{
		ParseFunc: func(data []byte) (ports.Animation, error) {
			return anim, nil
		},
	}
	store := New(decoder, nil, logger.NewNoop())
	t.Cleanup(store.Close)

	ready := make(chan struct{})
	store.Prepare(source, func() { close(ready) })
	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("store never became ready")
	}
	return store
}

// waitFor polls cond until it holds or the deadline passes. Background
// decoding is asynchronous by design, so window states are eventual.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition never became true")
		}
		time.Sleep(time.Millisecond)
	}
}

func delays(n int, d time.Duration) []time.Duration {
	ds := make([]time.Duration, n)
	for i := range ds {
		ds[i] = d
	}
	return ds
}

func TestStore_ParseFailureLeavesStoreEmpty(t *testing.T) {
	decoder := &mocks.AnimationDecoder{
		ParseFunc: func(data []byte) (ports.Animation, error) {
			return nil, errors.New("bad container")
		},
	}
	store := New(decoder, nil, logger.NewNoop())
	defer store.Close()

	ready := make(chan struct{})
	store.Prepare(ports.Source{Data: []byte("garbage"), PreloadCount: 4}, func() { close(ready) })
	<-ready

	if got := store.FrameCount(); got != 0 {
		t.Errorf("expected frame count 0, got %d", got)
	}
	if store.IsAnimatable() {
		t.Error("expected store to not be animatable")
	}
	if _, ok := store.CurrentFrameImage(); ok {
		t.Error("expected no current frame image")
	}
	if store.ShouldChangeFrame(time.Second) {
		t.Error("expected no frame change on an empty store")
	}
}

func TestStore_NonPositivePreloadDegrades(t *testing.T) {
	anim := &mocks.Animation{Delays: delays(4, 100*time.Millisecond)}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 0})

	if got := store.FrameCount(); got != 0 {
		t.Errorf("expected frame count 0, got %d", got)
	}
	if store.IsAnimatable() {
		t.Error("expected store to not be animatable")
	}
}

func TestStore_MetadataAndClampedLoopDuration(t *testing.T) {
	anim := &mocks.Animation{
		Delays: []time.Duration{100 * time.Millisecond, 0, 5 * time.Millisecond, 200 * time.Millisecond},
		Width:  32,
		Height: 16,
	}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 4})

	if got := store.FrameCount(); got != 4 {
		t.Errorf("expected frame count 4, got %d", got)
	}
	// The zero and 5ms delays clamp to the 20ms floor.
	want := 100*time.Millisecond + MinFrameDelay + MinFrameDelay + 200*time.Millisecond
	if got := store.LoopDuration(); got != want {
		t.Errorf("expected loop duration %s, got %s", want, got)
	}
	if got := store.IntrinsicSize(); got != (ports.Dimension{Width: 32, Height: 16}) {
		t.Errorf("unexpected intrinsic size: %+v", got)
	}
	if !store.IsAnimatable() {
		t.Error("expected store to be animatable")
	}
}

func TestStore_SingleAdvanceAccumulator(t *testing.T) {
	anim := &mocks.Animation{Delays: delays(4, 100*time.Millisecond)}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 4})

	// 150ms covers one 100ms frame; 50ms stays in the accumulator.
	if !store.ShouldChangeFrame(150 * time.Millisecond) {
		t.Fatal("expected a frame change")
	}
	if got := store.CurrentIndex(); got != 1 {
		t.Fatalf("expected cursor 1, got %d", got)
	}

	// 50 + 49 = 99ms < 100ms: no change yet.
	if store.ShouldChangeFrame(49 * time.Millisecond) {
		t.Fatal("expected no frame change at 99ms accumulated")
	}
	// One more millisecond crosses the boundary exactly.
	if !store.ShouldChangeFrame(time.Millisecond) {
		t.Fatal("expected a frame change at 100ms accumulated")
	}
	if got := store.CurrentIndex(); got != 2 {
		t.Errorf("expected cursor 2, got %d", got)
	}
}

func TestStore_CoarseTickAdvancesMultipleFrames(t *testing.T) {
	anim := &mocks.Animation{Delays: delays(10, 100*time.Millisecond)}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 10})

	// One coarse tick spanning three full delays advances three frames.
	if !store.ShouldChangeFrame(350 * time.Millisecond) {
		t.Fatal("expected a frame change")
	}
	if got := store.CurrentIndex(); got != 3 {
		t.Errorf("expected cursor 3, got %d", got)
	}
}

func TestStore_WrapIncrementsLoopAndContinues(t *testing.T) {
	anim := &mocks.Animation{Delays: delays(4, 100*time.Millisecond)}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 4, LoopCount: 2})

	// One full pass: wraps back to frame 0, not finished yet.
	if !store.ShouldChangeFrame(400 * time.Millisecond) {
		t.Fatal("expected a frame change")
	}
	if got := store.CurrentIndex(); got != 0 {
		t.Errorf("expected cursor to wrap to 0, got %d", got)
	}
	if store.IsFinished() {
		t.Error("expected store to not be finished after one of two loops")
	}

	// Second pass reaches the loop target.
	if !store.ShouldChangeFrame(400 * time.Millisecond) {
		t.Fatal("expected a frame change")
	}
	if !store.IsFinished() {
		t.Error("expected store to be finished after two loops")
	}
}

func TestStore_FiniteLoopScenario(t *testing.T) {
	// 4 frames of 0.1s, loop count 1, capacity 4. Eight 0.05s ticks:
	// changes on ticks 2, 4, 6 and 8, finished after the 8th, and no
	// re-display of frame 0.
	anim := &mocks.Animation{Delays: delays(4, 100*time.Millisecond)}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 4, LoopCount: 1})

	changes := 0
	for i := 0; i < 8; i++ {
		if store.ShouldChangeFrame(50 * time.Millisecond) {
			changes++
		}
	}
	if changes != 4 {
		t.Errorf("expected exactly 4 frame changes, got %d", changes)
	}
	if !store.IsFinished() {
		t.Error("expected store to be finished after one full pass")
	}
	if got := store.CurrentIndex(); got != 3 {
		t.Errorf("expected cursor to stop at 3 without wrapping, got %d", got)
	}

	// No further changes once finished.
	if store.ShouldChangeFrame(time.Second) {
		t.Error("expected no frame change after finish")
	}
}

func TestStore_WindowNeverExceedsCapacity(t *testing.T) {
	anim := &mocks.Animation{Delays: delays(10, 100*time.Millisecond)}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 3})

	waitFor(t, func() bool { return store.BufferedCount() == 3 })

	for i := 0; i < 25; i++ {
		store.ShouldChangeFrame(100 * time.Millisecond)
		if got := store.BufferedCount(); got > 3 {
			t.Fatalf("resident frames %d exceed capacity 3", got)
		}
	}
	// The window refills behind the advancing cursor.
	waitFor(t, func() bool { return store.BufferedCount() == 3 })
}

func TestStore_EvictedFrameYieldsMiss(t *testing.T) {
	anim := &mocks.Animation{
		Delays: delays(6, 100*time.Millisecond),
		DecodeFrameFunc: func(index int) (image.Image, error) {
			if index >= 2 {
				// Frames past the initial window never decode.
				return nil, errors.New("decode failed")
			}
			return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
		},
	}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 2})

	if _, ok := store.CurrentFrameImage(); !ok {
		t.Fatal("expected frame 0 to be buffered")
	}

	// Advance to frame 2, which always fails to decode: the read path
	// reports a miss instead of blocking on a decode.
	store.ShouldChangeFrame(200 * time.Millisecond)
	if got := store.CurrentIndex(); got != 2 {
		t.Fatalf("expected cursor 2, got %d", got)
	}
	if _, ok := store.CurrentFrameImage(); ok {
		t.Error("expected a cache miss for the failed frame")
	}
}

func TestStore_FullCapacityDecodesEachFrameOnce(t *testing.T) {
	anim := &mocks.Animation{Delays: delays(4, 100*time.Millisecond)}
	// Capacity hint above the frame count clamps to the frame count:
	// decode everything once, never evict.
	store := newTestStore(t, anim, ports.Source{PreloadCount: 50})

	waitFor(t, func() bool { return store.BufferedCount() == 4 })

	// Two full passes schedule no further decodes.
	for i := 0; i < 8; i++ {
		store.ShouldChangeFrame(100 * time.Millisecond)
	}
	if got := store.BufferedCount(); got != 4 {
		t.Errorf("expected all 4 frames to stay resident, got %d", got)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, anim.DecodeCalls()); diff != "" {
		t.Errorf("unexpected decode calls (-want +got):\n%s", diff)
	}
}

func TestStore_ResizeAppliedAtDecodeTime(t *testing.T) {
	anim := &mocks.Animation{Delays: delays(3, 100*time.Millisecond), Width: 80, Height: 40}
	decoder := &mocks.AnimationDecoder{
		ParseFunc: func(data []byte) (ports.Animation, error) { return anim, nil },
	}
	renderer := &mocks.Renderer{}
	store := New(decoder, renderer, logger.NewNoop())
	defer store.Close()

	ready := make(chan struct{})
	store.Prepare(ports.Source{
		TargetSize:   ports.Dimension{Width: 20, Height: 20},
		Fit:          ports.FitAspectFill,
		PreloadCount: 3,
	}, func() { close(ready) })
	<-ready

	img, ok := store.CurrentFrameImage()
	if !ok {
		t.Fatal("expected frame 0 to be buffered")
	}
	if got := img.Bounds(); got.Dx() != 20 || got.Dy() != 20 {
		t.Errorf("expected resized 20x20 frame, got %dx%d", got.Dx(), got.Dy())
	}
	calls := renderer.ResizeCalls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 resize calls, got %d", len(calls))
	}
	if calls[0].Fit != ports.FitAspectFill {
		t.Errorf("expected aspect-fill policy, got %v", calls[0].Fit)
	}
}

func TestStore_SingleFrameIsNotAnimatable(t *testing.T) {
	anim := &mocks.Animation{Delays: delays(1, 100*time.Millisecond)}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 4})

	if store.IsAnimatable() {
		t.Error("expected a single-frame source to not be animatable")
	}
	if store.ShouldChangeFrame(time.Second) {
		t.Error("expected no frame change for a single frame")
	}
	if _, ok := store.CurrentFrameImage(); !ok {
		t.Error("expected the single frame to still be displayable")
	}
}

func TestStore_CloseReleasesBuffer(t *testing.T) {
	anim := &mocks.Animation{Delays: delays(4, 100*time.Millisecond)}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 4})

	waitFor(t, func() bool { return store.BufferedCount() == 4 })

	store.Close()
	store.Close() // idempotent

	if got := store.BufferedCount(); got != 0 {
		t.Errorf("expected no resident frames after close, got %d", got)
	}
	if _, ok := store.CurrentFrameImage(); ok {
		t.Error("expected no current frame after close")
	}
	if store.ShouldChangeFrame(time.Second) {
		t.Error("expected no frame change after close")
	}
}

func TestStore_InfiniteLoopNeverFinishes(t *testing.T) {
	anim := &mocks.Animation{Delays: delays(2, 100*time.Millisecond)}
	store := newTestStore(t, anim, ports.Source{PreloadCount: 2, LoopCount: 0})

	for i := 0; i < 50; i++ {
		store.ShouldChangeFrame(100 * time.Millisecond)
	}
	if store.IsFinished() {
		t.Error("expected an infinitely looping store to never finish")
	}
}
