// Package filewatch monitors an animation source file and signals when
// it changes, enabling live reload during playback.
package filewatch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/user/frameplay/pkg/ports"
)

// debounceDelay coalesces the bursts of events editors emit when
// rewriting a file.
const debounceDelay = 100 * time.Millisecond

// Watcher reports changes to a single file.
type Watcher struct {
	fw     *fsnotify.Watcher
	path   string
	logger ports.Logger

	changes chan struct{}

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
}

// New starts watching path. The parent directory is watched rather than
// the file itself, since many tools replace files on save.
func New(path string, logger ports.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("filewatch: resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filewatch: create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("filewatch: watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fw:      fw,
		path:    abs,
		logger:  logger.WithComponent("filewatch"),
		changes: make(chan struct{}, 1),
	}
	go w.run()
	return w, nil
}

// Changes returns the channel that receives a signal after the watched
// file changes. Signals are debounced and coalesced.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching. No signals are sent after Close returns.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()
	return w.fw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("source file changed: %s", ev.Name)
			w.scheduleNotify()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) scheduleNotify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		select {
		case w.changes <- struct{}{}:
		default:
		}
	})
}
