package transform

import (
	"image"
	"image/color"
	"testing"
)

func newFrame(w, h int, colors []color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, colors[i%len(colors)])
			i++
		}
	}
	return img
}

func distinctColors(img *image.NRGBA) int {
	seen := make(map[color.NRGBA]bool)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := img.NRGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			seen[color.NRGBA{R: px.R, G: px.G, B: px.B, A: 255}] = true
		}
	}
	return len(seen)
}

func TestQuantizeFourColorsUnderBudget(t *testing.T) {
	img := newFrame(2, 2, []color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
	})

	out, palette := Quantize(img, 32)
	if len(palette) > 4 {
		t.Fatalf("palette has %d colors, want <= 4", len(palette))
	}
	if got := distinctColors(out); got > 4 {
		t.Fatalf("output has %d distinct colors, want <= 4", got)
	}
}

func TestQuantizeRespectsMaxColors(t *testing.T) {
	// 16x16 gradient: 256 distinct colors before quantization.
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 16),
				G: uint8(y * 16),
				B: uint8((x + y) * 8),
				A: 255,
			})
		}
	}

	for _, maxColors := range []int{1, 4, 8, 32} {
		out, palette := Quantize(img, maxColors)
		if len(palette) > maxColors {
			t.Fatalf("maxColors=%d: palette has %d entries", maxColors, len(palette))
		}
		if got := distinctColors(out); got > maxColors {
			t.Fatalf("maxColors=%d: output has %d distinct colors", maxColors, got)
		}
	}
}

func TestQuantizeIgnoresTransparentPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{}) // fully transparent

	out, palette := Quantize(img, 8)
	if len(palette) != 1 {
		t.Fatalf("palette has %d entries, want 1", len(palette))
	}
	if got := out.NRGBAAt(1, 0); got.A != 0 {
		t.Fatalf("transparent pixel gained alpha %d", got.A)
	}
	if got := out.NRGBAAt(0, 0); got.A != 255 {
		t.Fatalf("opaque pixel lost alpha: %v", got)
	}
}

func TestQuantizePreservesPartialAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 128})

	out, _ := Quantize(img, 8)
	if got := out.NRGBAAt(0, 0).A; got != 128 {
		t.Fatalf("alpha = %d, want 128", got)
	}
}

func TestQuantizeFullyTransparentFrame(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	out, palette := Quantize(img, 8)
	if len(palette) != 0 {
		t.Fatalf("palette has %d entries, want 0", len(palette))
	}
	if got := out.NRGBAAt(0, 0).A; got != 0 {
		t.Fatalf("transparent frame gained alpha %d", got)
	}
}

func TestQuantizeDeterministic(t *testing.T) {
	img := newFrame(8, 8, []color.NRGBA{
		{R: 10, G: 20, B: 30, A: 255},
		{R: 200, G: 100, B: 50, A: 255},
		{R: 0, G: 255, B: 128, A: 255},
	})

	_, first := Quantize(img, 2)
	_, second := Quantize(img, 2)
	if len(first) != len(second) {
		t.Fatalf("palette sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("palette entry %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}
