// Package ports defines the interfaces between the playback core and
// its external collaborators.
package ports

import (
	"image"
	"time"
)

// AnimationDecoder abstracts parsing of an animated image container.
type AnimationDecoder interface {
	// Parse reads container-level metadata from raw bytes and returns an
	// Animation handle for on-demand frame decoding. Malformed input
	// returns an error and no handle.
	Parse(data []byte) (Animation, error)
}

// Animation is a parsed animation container. Metadata accessors are cheap;
// DecodeFrame performs the actual pixel decode for one frame.
type Animation interface {
	// FrameCount returns the total number of frames in the container.
	FrameCount() int

	// Delay returns the display duration of the frame at index, as stored
	// in the container. Values are not clamped here.
	Delay(index int) time.Duration

	// Size returns the intrinsic pixel dimensions of the animation.
	Size() (width, height int)

	// LoopCount returns the container's own loop metadata.
	// 0 means loop forever.
	LoopCount() int

	// DecodeFrame decodes the frame at index into a fully composed image.
	// Frames with partial coverage or disposal semantics are coalesced so
	// the result is displayable on its own.
	DecodeFrame(index int) (image.Image, error)
}
