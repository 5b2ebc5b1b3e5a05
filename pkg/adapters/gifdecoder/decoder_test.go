package gifdecoder

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"
	"time"
)

var testPalette = color.Palette{
	color.Transparent,
	color.RGBA{R: 255, A: 255},
	color.RGBA{B: 255, A: 255},
}

const (
	idxRed  = 1
	idxBlue = 2
)

// palettedFill builds a paletted frame covering rect with a single
// palette entry.
func palettedFill(rect image.Rectangle, index uint8) *image.Paletted {
	p := image.NewPaletted(rect, testPalette)
	for i := range p.Pix {
		p.Pix[i] = index
	}
	return p
}

func encodeGIF(t *testing.T, g *gif.GIF) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode test gif: %v", err)
	}
	return buf.Bytes()
}

func TestDecoder_ParseMetadata(t *testing.T) {
	data := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{
			palettedFill(image.Rect(0, 0, 4, 4), idxRed),
			palettedFill(image.Rect(0, 0, 4, 4), idxBlue),
		},
		Delay:     []int{10, 5},
		LoopCount: 0,
	})

	anim, err := New().Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := anim.FrameCount(); got != 2 {
		t.Errorf("frame count = %d, want 2", got)
	}
	w, h := anim.Size()
	if w != 4 || h != 4 {
		t.Errorf("size = %dx%d, want 4x4", w, h)
	}
	if got := anim.Delay(0); got != 100*time.Millisecond {
		t.Errorf("delay(0) = %v, want 100ms", got)
	}
	if got := anim.Delay(1); got != 50*time.Millisecond {
		t.Errorf("delay(1) = %v, want 50ms", got)
	}
	if got := anim.Delay(7); got != 0 {
		t.Errorf("delay out of range = %v, want 0", got)
	}
}

func TestDecoder_ParseRejectsGarbage(t *testing.T) {
	anim, err := New().Parse([]byte("definitely not a gif"))
	if err == nil {
		t.Fatal("expected an error for garbage input")
	}
	if anim != nil {
		t.Error("expected no animation handle on error")
	}
}

func TestAnimation_LoopCountMapping(t *testing.T) {
	cases := []struct {
		name      string
		container int
		want      int
	}{
		{"forever", 0, 0},
		{"play once", -1, 1},
		{"two repeats", 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := encodeGIF(t, &gif.GIF{
				Image: []*image.Paletted{
					palettedFill(image.Rect(0, 0, 2, 2), idxRed),
					palettedFill(image.Rect(0, 0, 2, 2), idxBlue),
				},
				Delay:     []int{10, 10},
				LoopCount: tc.container,
			})
			anim, err := New().Parse(data)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := anim.LoopCount(); got != tc.want {
				t.Errorf("loop count = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAnimation_CoalescesPartialFrames(t *testing.T) {
	// Frame 1 only covers the center; the decoded result must keep
	// frame 0's pixels around it.
	data := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{
			palettedFill(image.Rect(0, 0, 4, 4), idxRed),
			palettedFill(image.Rect(1, 1, 3, 3), idxBlue),
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
	})
	anim, err := New().Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	img, err := anim.DecodeFrame(1)
	if err != nil {
		t.Fatalf("decode frame 1: %v", err)
	}
	assertColor(t, img, 0, 0, testPalette[idxRed])
	assertColor(t, img, 2, 2, testPalette[idxBlue])
}

func TestAnimation_DisposalBackgroundClears(t *testing.T) {
	data := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{
			palettedFill(image.Rect(0, 0, 4, 4), idxRed),
			palettedFill(image.Rect(1, 1, 3, 3), idxBlue),
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalBackground, gif.DisposalNone},
	})
	anim, err := New().Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	img, err := anim.DecodeFrame(1)
	if err != nil {
		t.Fatalf("decode frame 1: %v", err)
	}
	// Frame 0 is disposed to background before frame 1 draws.
	_, _, _, alpha := img.At(0, 0).RGBA()
	if alpha != 0 {
		t.Errorf("expected transparent pixel at (0,0) after background disposal, alpha = %d", alpha)
	}
	assertColor(t, img, 2, 2, testPalette[idxBlue])
}

func TestAnimation_BackwardAccessRecomposes(t *testing.T) {
	data := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{
			palettedFill(image.Rect(0, 0, 4, 4), idxRed),
			palettedFill(image.Rect(0, 0, 4, 4), idxBlue),
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
	})
	anim, err := New().Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := anim.DecodeFrame(1); err != nil {
		t.Fatalf("decode frame 1: %v", err)
	}
	// Jumping back restarts composition from frame 0.
	img, err := anim.DecodeFrame(0)
	if err != nil {
		t.Fatalf("decode frame 0: %v", err)
	}
	assertColor(t, img, 2, 2, testPalette[idxRed])
}

func TestAnimation_DecodeFrameOutOfRange(t *testing.T) {
	data := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{palettedFill(image.Rect(0, 0, 2, 2), idxRed)},
		Delay: []int{10},
	})
	anim, err := New().Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := anim.DecodeFrame(5); err == nil {
		t.Error("expected an error for an out of range index")
	}
	if _, err := anim.DecodeFrame(-1); err == nil {
		t.Error("expected an error for a negative index")
	}
}

func assertColor(t *testing.T, img image.Image, x, y int, want color.Color) {
	t.Helper()
	gr, gg, gb, ga := img.At(x, y).RGBA()
	wr, wg, wb, wa := want.RGBA()
	if gr != wr || gg != wg || gb != wb || ga != wa {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, img.At(x, y), want)
	}
}
