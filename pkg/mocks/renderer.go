package mocks

import (
	"image"
	"sync"

	"github.com/user/frameplay/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	ResizeFunc      func(img image.Image, width, height int, fit ports.FitPolicy) image.Image
	EncodeImageFunc func(img image.Image) ([]byte, error)

	mu          sync.Mutex
	resizeCalls []ResizeCall
}

// ResizeCall records a call to Resize.
type ResizeCall struct {
	Width  int
	Height int
	Fit    ports.FitPolicy
}

func (m *Renderer) Resize(img image.Image, width, height int, fit ports.FitPolicy) image.Image {
	m.mu.Lock()
	m.resizeCalls = append(m.resizeCalls, ResizeCall{Width: width, Height: height, Fit: fit})
	m.mu.Unlock()
	if m.ResizeFunc != nil {
		return m.ResizeFunc(img, width, height, fit)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func (m *Renderer) EncodeImage(img image.Image) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img)
	}
	return []byte("png"), nil
}

// ResizeCalls returns a copy of the recorded Resize calls.
func (m *Renderer) ResizeCalls() []ResizeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ResizeCall, len(m.resizeCalls))
	copy(calls, m.resizeCalls)
	return calls
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)
