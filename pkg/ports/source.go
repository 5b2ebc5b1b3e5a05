package ports

// DefaultPreloadCount is the conventional frame buffer capacity when the
// caller gives no hint.
const DefaultPreloadCount = 50

// Dimension represents width and height in pixels.
type Dimension struct {
	Width  int
	Height int
}

// IsZero reports whether the dimension is unset.
func (d Dimension) IsZero() bool {
	return d.Width <= 0 || d.Height <= 0
}

// Source describes one animation to prepare for playback. It is treated
// as immutable once handed to a frame store.
type Source struct {
	// Data is the raw animation container bytes.
	Data []byte

	// TargetSize is the display size frames are resized to. A zero
	// dimension disables resizing; frames keep their intrinsic size.
	TargetSize Dimension

	// Fit selects how frames are fitted into TargetSize.
	Fit FitPolicy

	// PreloadCount is the frame buffer capacity. Must be positive;
	// a non-positive value yields a store with no animatable frames.
	PreloadCount int

	// LoopCount is the number of full playback passes before the store
	// reports finished. Zero or negative means loop forever.
	LoopCount int
}
