package mocks

import (
	"image"
	"sync"

	"github.com/user/frameplay/pkg/ports"
)

// FrameSink is a mock implementation of ports.FrameSink.
type FrameSink struct {
	WriteFrameFunc func(index int, img image.Image) error

	mu     sync.Mutex
	writes []int
}

func (m *FrameSink) WriteFrame(index int, img image.Image) error {
	m.mu.Lock()
	m.writes = append(m.writes, index)
	m.mu.Unlock()
	if m.WriteFrameFunc != nil {
		return m.WriteFrameFunc(index, img)
	}
	return nil
}

// Writes returns a copy of the recorded frame indices.
func (m *FrameSink) Writes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	writes := make([]int, len(m.writes))
	copy(writes, m.writes)
	return writes
}

// Ensure FrameSink implements ports.FrameSink
var _ ports.FrameSink = (*FrameSink)(nil)
