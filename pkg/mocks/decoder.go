// Package mocks provides mock implementations for testing.
package mocks

import (
	"image"
	"sync"
	"time"

	"github.com/user/frameplay/pkg/ports"
)

// AnimationDecoder is a mock implementation of ports.AnimationDecoder.
type AnimationDecoder struct {
	ParseFunc func(data []byte) (ports.Animation, error)
}

func (m *AnimationDecoder) Parse(data []byte) (ports.Animation, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(data)
	}
	return &Animation{}, nil
}

// Animation is a scriptable ports.Animation. Delays defines the frame
// sequence; DecodeFrame defaults to returning a Width x Height image.
type Animation struct {
	Delays          []time.Duration
	Width           int
	Height          int
	Loops           int
	DecodeFrameFunc func(index int) (image.Image, error)

	mu          sync.Mutex
	decodeCalls []int
}

func (m *Animation) FrameCount() int {
	return len(m.Delays)
}

func (m *Animation) Delay(index int) time.Duration {
	if index < 0 || index >= len(m.Delays) {
		return 0
	}
	return m.Delays[index]
}

func (m *Animation) Size() (width, height int) {
	w, h := m.Width, m.Height
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return w, h
}

func (m *Animation) LoopCount() int {
	return m.Loops
}

func (m *Animation) DecodeFrame(index int) (image.Image, error) {
	m.mu.Lock()
	m.decodeCalls = append(m.decodeCalls, index)
	m.mu.Unlock()
	if m.DecodeFrameFunc != nil {
		return m.DecodeFrameFunc(index)
	}
	w, h := m.Size()
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

// DecodeCalls returns a copy of the recorded DecodeFrame indices.
func (m *Animation) DecodeCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]int, len(m.decodeCalls))
	copy(calls, m.decodeCalls)
	return calls
}

// Ensure interfaces are implemented
var (
	_ ports.AnimationDecoder = (*AnimationDecoder)(nil)
	_ ports.Animation        = (*Animation)(nil)
)
