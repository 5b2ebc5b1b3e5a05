package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/frameplay/pkg/mocks"
)

func TestSink_WritesNumberedFiles(t *testing.T) {
	fs := &mocks.FileSystem{}
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image) ([]byte, error) {
			return []byte("encoded"), nil
		},
	}
	sink := New("out", fs, renderer)

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	// Frame indices repeat when playback loops; file numbering must not.
	for _, index := range []int{0, 1, 0} {
		if err := sink.WriteFrame(index, img); err != nil {
			t.Fatalf("write frame %d: %v", index, err)
		}
	}

	files := fs.Files()
	for _, name := range []string{"frame-0000.png", "frame-0001.png", "frame-0002.png"} {
		path := filepath.Join("out", name)
		if string(files[path]) != "encoded" {
			t.Errorf("missing or wrong content for %s", path)
		}
	}
	if got := sink.Written(); got != 3 {
		t.Errorf("written = %d, want 3", got)
	}
}

func TestSink_EncodeErrorDoesNotAdvanceSequence(t *testing.T) {
	fs := &mocks.FileSystem{}
	encodeErr := errors.New("encode failed")
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image) ([]byte, error) {
			return nil, encodeErr
		},
	}
	sink := New("out", fs, renderer)

	err := sink.WriteFrame(0, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, encodeErr) {
		t.Fatalf("expected the encode error, got %v", err)
	}
	if got := sink.Written(); got != 0 {
		t.Errorf("written = %d, want 0", got)
	}
	if len(fs.Files()) != 0 {
		t.Error("expected no file writes on encode failure")
	}
}
