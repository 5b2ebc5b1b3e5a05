// Package gifdecoder implements the animation decoder port for GIF
// containers using the standard library decoder.
package gifdecoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"sync"
	"time"

	"github.com/user/frameplay/pkg/ports"
)

// ErrNoFrames is returned when a container parses but holds no frames.
var ErrNoFrames = errors.New("gifdecoder: no frames")

// Decoder parses GIF data into an on-demand frame source.
type Decoder struct{}

// New creates a new Decoder.
func New() *Decoder {
	return &Decoder{}
}

// Parse decodes the container structure of the GIF. Frame pixel data is
// only composed when DecodeFrame is called.
func (d *Decoder) Parse(data []byte) (ports.Animation, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gifdecoder: decode: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}
	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		b := g.Image[0].Bounds()
		width, height = b.Dx(), b.Dy()
	}
	return &Animation{g: g, width: width, height: height}, nil
}

// Animation is a parsed GIF. DecodeFrame coalesces frames so each
// result is a full displayable image regardless of the container's
// inter-frame disposal tricks.
//
// Composition state is kept between calls: sequential access, the
// access pattern of a playback window, composes each frame exactly
// once. Jumping backwards restarts composition from frame 0.
type Animation struct {
	g             *gif.GIF
	width, height int

	mu     sync.Mutex
	canvas *image.RGBA
	next   int
}

// FrameCount returns the number of frames in the GIF.
func (a *Animation) FrameCount() int {
	return len(a.g.Image)
}

// Delay returns the stored delay of a frame. GIF delays are in
// hundredths of a second.
func (a *Animation) Delay(index int) time.Duration {
	if index < 0 || index >= len(a.g.Delay) {
		return 0
	}
	return time.Duration(a.g.Delay[index]) * 10 * time.Millisecond
}

// Size returns the logical screen dimensions of the GIF.
func (a *Animation) Size() (width, height int) {
	return a.width, a.height
}

// LoopCount maps the GIF loop field to full playback passes.
// In the container, 0 means loop forever, -1 means play once and n
// means repeat n more times after the first pass.
func (a *Animation) LoopCount() int {
	switch {
	case a.g.LoopCount == 0:
		return 0
	case a.g.LoopCount < 0:
		return 1
	default:
		return a.g.LoopCount + 1
	}
}

// DecodeFrame composes the frame at index over the preceding frames,
// honoring each frame's disposal method.
func (a *Animation) DecodeFrame(index int) (image.Image, error) {
	if index < 0 || index >= len(a.g.Image) {
		return nil, fmt.Errorf("gifdecoder: frame index %d out of range [0,%d)", index, len(a.g.Image))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.canvas == nil || index < a.next {
		a.canvas = image.NewRGBA(image.Rect(0, 0, a.width, a.height))
		a.next = 0
	}
	var out *image.RGBA
	for a.next <= index {
		out = a.compose(a.next, a.next == index)
	}
	return out, nil
}

// compose draws frame i over the canvas and applies its disposal for
// the following frame. When want is set, a snapshot of the canvas after
// drawing (before disposal) is returned.
func (a *Animation) compose(i int, want bool) *image.RGBA {
	src := a.g.Image[i]
	bounds := src.Bounds().Intersect(a.canvas.Bounds())

	disposal := byte(gif.DisposalNone)
	if i < len(a.g.Disposal) {
		disposal = a.g.Disposal[i]
	}

	var restore *image.RGBA
	if disposal == gif.DisposalPrevious {
		restore = image.NewRGBA(bounds)
		draw.Draw(restore, bounds, a.canvas, bounds.Min, draw.Src)
	}

	draw.Draw(a.canvas, bounds, src, bounds.Min, draw.Over)

	var out *image.RGBA
	if want {
		out = image.NewRGBA(a.canvas.Bounds())
		copy(out.Pix, a.canvas.Pix)
	}

	switch disposal {
	case gif.DisposalBackground:
		draw.Draw(a.canvas, bounds, image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		draw.Draw(a.canvas, bounds, restore, bounds.Min, draw.Src)
	}
	a.next = i + 1
	return out
}

// Ensure interfaces are implemented
var (
	_ ports.AnimationDecoder = (*Decoder)(nil)
	_ ports.Animation        = (*Animation)(nil)
)
