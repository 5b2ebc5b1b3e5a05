package framestore

import (
	"context"
)

// job is one unit of decode work. done, when set, fires after the frame
// has been processed; it marks the end of the initial window batch.
type job struct {
	index int
	done  func()
}

// decodeTask is the store's background decode worker. Cancellation is a
// first-class operation: cancel stops the worker, and results of decodes
// already in flight are discarded by the store's insert path.
type decodeTask struct {
	ctx      context.Context
	cancelFn context.CancelFunc
	store    *Store
	work     chan job
	stopped  chan struct{}
}

func newDecodeTask(s *Store, queueSize int) *decodeTask {
	ctx, cancel := context.WithCancel(context.Background())
	t := &decodeTask{
		ctx:      ctx,
		cancelFn: cancel,
		store:    s,
		work:     make(chan job, queueSize),
		stopped:  make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *decodeTask) run() {
	defer close(t.stopped)
	for {
		select {
		case <-t.ctx.Done():
			return
		case j := <-t.work:
			t.store.decodeFrame(j.index)
			if j.done != nil {
				j.done()
			}
		}
	}
}

// enqueue schedules one frame for decoding. Returns false if the queue
// is full; the caller treats that as a tolerated miss and the frame is
// retried on its next window entry.
func (t *decodeTask) enqueue(idx int) bool {
	select {
	case t.work <- job{index: idx}:
		return true
	default:
		return false
	}
}

// enqueueBatch schedules the initial window. done fires once after the
// last frame of the batch has been processed.
func (t *decodeTask) enqueueBatch(indices []int, done func()) {
	if len(indices) == 0 {
		if done != nil {
			done()
		}
		return
	}
	for i, idx := range indices {
		j := job{index: idx}
		if i == len(indices)-1 {
			j.done = done
		}
		select {
		case t.work <- j:
		case <-t.ctx.Done():
			return
		}
	}
}

// cancel stops the worker and waits for it to exit.
func (t *decodeTask) cancel() {
	t.cancelFn()
	<-t.stopped
}
