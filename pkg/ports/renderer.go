package ports

import (
	"image"
)

// FitPolicy specifies how a frame is fitted into the target size.
type FitPolicy int

const (
	// FitStretch scales to the exact target size, ignoring aspect ratio.
	FitStretch FitPolicy = iota
	// FitAspectFit scales to fit entirely within the target size,
	// preserving aspect ratio and letterboxing the remainder.
	FitAspectFit
	// FitAspectFill scales to cover the target size, preserving aspect
	// ratio and cropping the overflow.
	FitAspectFill
)

// String returns the string representation of the fit policy.
func (f FitPolicy) String() string {
	switch f {
	case FitStretch:
		return "stretch"
	case FitAspectFit:
		return "fit"
	case FitAspectFill:
		return "fill"
	default:
		return "unknown"
	}
}

// ParseFitPolicy parses a string into a FitPolicy.
func ParseFitPolicy(s string) FitPolicy {
	switch s {
	case "stretch":
		return FitStretch
	case "fill":
		return FitAspectFill
	default:
		return FitAspectFit
	}
}

// Renderer abstracts frame image processing.
type Renderer interface {
	// Resize scales img to the target dimensions according to the fit
	// policy. The result always has exactly the target dimensions.
	Resize(img image.Image, width, height int, fit FitPolicy) image.Image

	// EncodeImage encodes an image to PNG bytes for export.
	EncodeImage(img image.Image) ([]byte, error)
}
