// Package ggrenderer implements the renderer port using the gg library
// for compositing and golang.org/x/image for scaling.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/frameplay/pkg/ports"
)

// Renderer implements ports.Renderer.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Resize scales img to width x height according to the fit policy.
// FitAspectFit letterboxes with transparent padding; FitAspectFill
// center-crops the overflow. The result always has the requested
// dimensions.
func (r *Renderer) Resize(img image.Image, width, height int, fit ports.FitPolicy) image.Image {
	if width <= 0 || height <= 0 {
		return img
	}
	bounds := img.Bounds()
	iw, ih := bounds.Dx(), bounds.Dy()
	if iw == 0 || ih == 0 {
		return img
	}

	if fit == ports.FitStretch {
		return scale(img, width, height)
	}

	var factor float64
	if fit == ports.FitAspectFill {
		factor = math.Max(float64(width)/float64(iw), float64(height)/float64(ih))
	} else {
		factor = math.Min(float64(width)/float64(iw), float64(height)/float64(ih))
	}
	sw := int(math.Round(float64(iw) * factor))
	sh := int(math.Round(float64(ih) * factor))
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	scaled := scale(img, sw, sh)

	dc := gg.NewContext(width, height)
	dc.DrawImage(scaled, (width-sw)/2, (height-sh)/2)
	return dc.Image()
}

// EncodeImage encodes an image to PNG bytes.
func (r *Renderer) EncodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func scale(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)
