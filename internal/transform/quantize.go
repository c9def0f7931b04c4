package transform

import (
	"image"
	"image/color"
	"sort"
)

// Quantize reduces img to at most maxColors distinct colours using median-cut
// over the opaque and semi-opaque pixels. Fully transparent pixels take no
// part in palette building and keep their zero colour; every other pixel is
// mapped to its nearest palette entry with the alpha channel untouched.
func Quantize(img *image.NRGBA, maxColors int) (*image.NRGBA, []color.NRGBA) {
	bounds := img.Bounds()

	var pixels []color.NRGBA
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := img.NRGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			pixels = append(pixels, px)
		}
	}

	palette := medianCut(pixels, maxColors)

	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := img.NRGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			nearest := palette[nearestIndex(palette, px)]
			out.SetNRGBA(x, y, color.NRGBA{R: nearest.R, G: nearest.G, B: nearest.B, A: px.A})
		}
	}
	return out, palette
}

// medianCut splits the pixel set along the channel with the widest range
// until maxColors buckets exist, then averages each bucket.
func medianCut(pixels []color.NRGBA, maxColors int) []color.NRGBA {
	if len(pixels) == 0 {
		return nil
	}

	buckets := [][]color.NRGBA{pixels}
	for len(buckets) < maxColors {
		widest, spread := -1, -1
		for i, b := range buckets {
			if len(b) < 2 {
				continue
			}
			if _, s := widestChannel(b); s > spread {
				widest, spread = i, s
			}
		}
		if widest < 0 {
			break
		}

		b := buckets[widest]
		ch, _ := widestChannel(b)
		sort.Slice(b, func(i, j int) bool {
			return channel(b[i], ch) < channel(b[j], ch)
		})
		mid := len(b) / 2
		buckets[widest] = b[:mid]
		buckets = append(buckets, b[mid:])
	}

	palette := make([]color.NRGBA, 0, len(buckets))
	seen := make(map[color.NRGBA]bool, len(buckets))
	for _, b := range buckets {
		avg := averageColor(b)
		if !seen[avg] {
			seen[avg] = true
			palette = append(palette, avg)
		}
	}
	sort.Slice(palette, func(i, j int) bool {
		a, b := palette[i], palette[j]
		if a.R != b.R {
			return a.R < b.R
		}
		if a.G != b.G {
			return a.G < b.G
		}
		return a.B < b.B
	})
	return palette
}

func widestChannel(pixels []color.NRGBA) (ch, spread int) {
	var minC, maxC [3]int
	for i := range minC {
		minC[i] = 255
	}
	for _, p := range pixels {
		for i, v := range [3]int{int(p.R), int(p.G), int(p.B)} {
			if v < minC[i] {
				minC[i] = v
			}
			if v > maxC[i] {
				maxC[i] = v
			}
		}
	}
	for i := 0; i < 3; i++ {
		if maxC[i]-minC[i] > spread {
			ch, spread = i, maxC[i]-minC[i]
		}
	}
	return ch, spread
}

func channel(p color.NRGBA, ch int) uint8 {
	switch ch {
	case 0:
		return p.R
	case 1:
		return p.G
	default:
		return p.B
	}
}

func averageColor(pixels []color.NRGBA) color.NRGBA {
	if len(pixels) == 0 {
		return color.NRGBA{}
	}
	var r, g, b int
	for _, p := range pixels {
		r += int(p.R)
		g += int(p.G)
		b += int(p.B)
	}
	n := len(pixels)
	return color.NRGBA{
		R: uint8(r / n),
		G: uint8(g / n),
		B: uint8(b / n),
		A: 255,
	}
}

func nearestIndex(palette []color.NRGBA, px color.NRGBA) int {
	best, bestDist := 0, int(^uint(0)>>1)
	for i, c := range palette {
		dr := int(c.R) - int(px.R)
		dg := int(c.G) - int(px.G)
		db := int(c.B) - int(px.B)
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
