// Package framestore maintains a bounded buffer of decoded animation
// frames and decides, from elapsed playback time, when the displayed
// frame should advance.
package framestore

import (
	"image"
	"sync"
	"time"

	"github.com/user/frameplay/pkg/ports"
)

// MinFrameDelay is the floor applied to per-frame delays. Containers
// commonly carry zero or implausibly small delays; clamping avoids
// runaway playback.
const MinFrameDelay = 20 * time.Millisecond

// frame is one entry of the frame table. The image is non-nil only
// while the frame is inside the buffer window.
type frame struct {
	delay time.Duration
	img   image.Image
}

// Store owns the decoded-frame cache, the per-frame delay table and the
// loop bookkeeping for one animation source. A Store is prepared once
// per source and never reused; replace it by building a new one.
//
// The clock path (ShouldChangeFrame, CurrentFrameImage) performs only
// arithmetic and cache lookups. Decoding and resizing happen on the
// store's background task.
type Store struct {
	decoder  ports.AnimationDecoder
	renderer ports.Renderer
	logger   ports.Logger

	mu           sync.Mutex
	animation    ports.Animation
	source       ports.Source
	frames       []frame
	capacity     int
	cursor       int
	elapsed      time.Duration
	loopsDone    int
	loopTarget   int
	finished     bool
	ready        bool
	resident     int
	pending      map[int]bool
	intrinsic    ports.Dimension
	loopDuration time.Duration
	closed       bool
	task         *decodeTask
}

// New creates an empty Store. Call Prepare to bind it to a source.
// The renderer may be nil when resizing is not wanted.
func New(decoder ports.AnimationDecoder, renderer ports.Renderer, logger ports.Logger) *Store {
	return &Store{
		decoder:  decoder,
		renderer: renderer,
		logger:   logger.WithComponent("framestore"),
		pending:  make(map[int]bool),
	}
}

// Prepare parses the source and begins asynchronous decode of the
// initial buffer window. Frame metadata (count, delays, size) is read
// eagerly; pixel data is decoded lazily on the background task.
//
// onReady fires once the initial window has been processed. Parse
// failures and misconfigured sources leave the store empty rather than
// returning an error; callers detect failure via FrameCount() == 0.
func (s *Store) Prepare(source ports.Source, onReady func()) {
	anim, err := s.decoder.Parse(source.Data)
	if err != nil || anim == nil || anim.FrameCount() == 0 {
		if err != nil {
			s.logger.Debug("animation parse failed: %v", err)
		}
		if onReady != nil {
			onReady()
		}
		return
	}
	if source.PreloadCount <= 0 {
		s.logger.Warn("preload count %d is not positive, store left empty", source.PreloadCount)
		if onReady != nil {
			onReady()
		}
		return
	}

	count := anim.FrameCount()
	capacity := source.PreloadCount
	if capacity > count {
		capacity = count
	}

	frames := make([]frame, count)
	var total time.Duration
	for i := range frames {
		d := anim.Delay(i)
		if d < MinFrameDelay {
			d = MinFrameDelay
		}
		frames[i].delay = d
		total += d
	}

	loopTarget := source.LoopCount
	if loopTarget < 0 {
		loopTarget = 0
	}
	width, height := anim.Size()

	s.mu.Lock()
	s.animation = anim
	s.source = source
	s.frames = frames
	s.capacity = capacity
	s.loopTarget = loopTarget
	s.loopDuration = total
	s.intrinsic = ports.Dimension{Width: width, Height: height}
	s.task = newDecodeTask(s, count)
	initial := make([]int, capacity)
	for i := range initial {
		initial[i] = i
		s.pending[i] = true
	}
	task := s.task
	s.mu.Unlock()

	s.logger.Debug("prepared %d frames, window %d, loop target %d", count, capacity, loopTarget)

	task.enqueueBatch(initial, func() {
		s.mu.Lock()
		s.ready = true
		s.mu.Unlock()
		if onReady != nil {
			onReady()
		}
	})
}

// CurrentFrameImage returns the decoded image at the cursor. The second
// return value is false on a cache miss (evicted or not yet decoded);
// callers must tolerate transient absence.
func (s *Store) CurrentFrameImage() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 || s.closed {
		return nil, false
	}
	img := s.frames[s.cursor].img
	return img, img != nil
}

// IsAnimatable reports whether the store holds more than one frame and
// the initial buffer window is non-empty.
func (s *Store) IsAnimatable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames) > 1 && s.resident > 0
}

// IsFinished reports whether the configured finite loop count has been
// reached. Stores looping forever never finish.
func (s *Store) IsFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// FrameCount returns the total number of frames, or 0 for a store whose
// source failed to parse.
func (s *Store) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// CurrentIndex returns the cursor position.
func (s *Store) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// LoopDuration returns the sum of all per-frame delays after clamping.
func (s *Store) LoopDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loopDuration
}

// IntrinsicSize returns the animation's own pixel dimensions.
func (s *Store) IntrinsicSize() ports.Dimension {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intrinsic
}

// BufferedCount returns the number of frames currently holding a
// decoded image. Never exceeds the buffer capacity.
func (s *Store) BufferedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resident
}

// ShouldChangeFrame adds elapsed to the internal accumulator and
// advances the cursor once per whole frame delay the accumulator
// covers, wrapping at the end of the sequence. A coarse tick spanning
// several frame boundaries advances several frames in one call.
//
// Returns true iff the displayed frame changed. Reaching a finite loop
// target stops the advance on the wrap boundary; frame 0 is not shown
// again.
func (s *Store) ShouldChangeFrame(elapsed time.Duration) bool {
	if elapsed < 0 {
		elapsed = 0
	}

	s.mu.Lock()
	if len(s.frames) <= 1 || s.finished || s.closed {
		s.mu.Unlock()
		return false
	}

	s.elapsed += elapsed
	changed := false
	var prefetch []int
	last := len(s.frames) - 1
	for s.elapsed >= s.frames[s.cursor].delay {
		s.elapsed -= s.frames[s.cursor].delay
		if s.cursor == last && s.loopTarget > 0 && s.loopsDone+1 >= s.loopTarget {
			s.loopsDone++
			s.finished = true
			changed = true
			break
		}
		prev := s.cursor
		if s.cursor == last {
			s.cursor = 0
			s.loopsDone++
		} else {
			s.cursor++
		}
		changed = true

		// Slide the window: evict the frame that fell behind, decode
		// the one entering ahead. With capacity covering the whole
		// sequence nothing ever leaves the window.
		if s.capacity < len(s.frames) {
			if s.frames[prev].img != nil {
				s.frames[prev].img = nil
				s.resident--
			}
			enter := (prev + s.capacity) % len(s.frames)
			if s.frames[enter].img == nil && !s.pending[enter] {
				s.pending[enter] = true
				prefetch = append(prefetch, enter)
			}
		}
	}
	task := s.task
	s.mu.Unlock()

	for _, idx := range prefetch {
		if !task.enqueue(idx) {
			s.mu.Lock()
			delete(s.pending, idx)
			s.mu.Unlock()
		}
	}
	return changed
}

// Close cancels background decoding and releases all buffered images.
// In-flight decodes may still complete but their results are discarded.
// Close is idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for i := range s.frames {
		s.frames[i].img = nil
	}
	s.resident = 0
	task := s.task
	s.mu.Unlock()

	if task != nil {
		task.cancel()
	}
}

// inWindowLocked reports whether idx lies in the circular window of
// s.capacity frames starting at the cursor. Callers hold s.mu.
func (s *Store) inWindowLocked(idx int) bool {
	if len(s.frames) == 0 {
		return false
	}
	offset := idx - s.cursor
	if offset < 0 {
		offset += len(s.frames)
	}
	return offset < s.capacity
}

// decodeFrame runs on the background task: decode one frame, resize it
// if configured, and insert it into the buffer unless the window moved
// on or the store was closed in the meantime.
func (s *Store) decodeFrame(idx int) {
	s.mu.Lock()
	if s.closed || !s.inWindowLocked(idx) || s.frames[idx].img != nil {
		delete(s.pending, idx)
		s.mu.Unlock()
		return
	}
	anim := s.animation
	source := s.source
	s.mu.Unlock()

	img, err := anim.DecodeFrame(idx)
	if err != nil {
		s.logger.Debug("frame %d decode failed: %v", idx, err)
		s.mu.Lock()
		delete(s.pending, idx)
		s.mu.Unlock()
		return
	}
	if !source.TargetSize.IsZero() && s.renderer != nil {
		img = s.renderer.Resize(img, source.TargetSize.Width, source.TargetSize.Height, source.Fit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, idx)
	if s.closed || !s.inWindowLocked(idx) {
		return
	}
	if s.frames[idx].img == nil {
		s.resident++
	}
	s.frames[idx].img = img
}
