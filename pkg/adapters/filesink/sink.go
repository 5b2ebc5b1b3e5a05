// Package filesink provides a frame sink that writes frames as
// numbered PNG files.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/user/frameplay/pkg/ports"
)

// Sink writes each frame it receives to baseDir as a PNG. Files are
// numbered by arrival order, not by frame index, so a looping playback
// yields a full sequence.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer

	mu  sync.Mutex
	seq int
}

// New creates a new Sink writing into baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// WriteFrame encodes the frame to PNG and writes it to disk.
func (s *Sink) WriteFrame(index int, img image.Image) error {
	data, err := s.renderer.EncodeImage(img)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}

	s.mu.Lock()
	seq := s.seq
	s.seq++
	s.mu.Unlock()

	path := filepath.Join(s.baseDir, fmt.Sprintf("frame-%04d.png", seq))
	return s.fs.WriteFile(path, data)
}

// Written returns the number of frames written so far.
func (s *Sink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
