package transform

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Frame is one transformed still: the quantized pixels plus the palette that
// was derived for them.
type Frame struct {
	Index   int
	Image   *image.NRGBA
	Palette []color.NRGBA
}

// Load decodes a still image from disk.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}

// Fit scales img proportionally so that it fits inside maxWidth x maxHeight.
// Images already inside the box are returned at their original size; the
// aspect ratio is never distorted.
func Fit(img image.Image, maxWidth, maxHeight int) *image.NRGBA {
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth && bounds.Dy() <= maxHeight {
		return imaging.Clone(img)
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}

// Transform resizes one extracted still into the bounding box and reduces it
// to at most maxColors colours. The input image is not mutated.
func Transform(index int, img image.Image, maxWidth, maxHeight, maxColors int) Frame {
	fitted := Fit(img, maxWidth, maxHeight)
	quantized, palette := Quantize(fitted, maxColors)
	return Frame{Index: index, Image: quantized, Palette: palette}
}
