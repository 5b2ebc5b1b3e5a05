package ports

import (
	"image"
)

// FrameSink consumes displayed or exported frames.
type FrameSink interface {
	// WriteFrame receives the frame at the given playback position.
	// The image must not be retained beyond the call.
	WriteFrame(index int, img image.Image) error
}
