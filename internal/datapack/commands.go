package datapack

import (
	"fmt"
	"image"
)

// pixelCommands renders one particle-spawn command per non-transparent pixel
// in row-major scan order. The grid is centred on the anchor horizontally,
// its bottom row sits at the anchor height, and adjacent pixels are spaced
// scale/pointsPerBlock blocks apart.
func pixelCommands(img *image.NRGBA, p Params) []string {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	step := p.Scale / p.PointsPerBlock

	cmds := make([]string, 0, width*height)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := img.NRGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			col := x - bounds.Min.X
			row := y - bounds.Min.Y
			dx := (float64(col) - float64(width-1)/2) * step
			dy := float64(height-1-row) * step
			cmds = append(cmds, fmt.Sprintf(
				"execute positioned %s run particleex normal %s ~%.4f ~%.4f ~ %.4f %.4f %.4f %.4f 0 0 0 %d \"\" 1.0 %s",
				p.AnchorPos, p.Particle, dx, dy,
				float64(px.R)/255, float64(px.G)/255, float64(px.B)/255, float64(px.A)/255,
				p.LifetimeTicks, p.Group,
			))
		}
	}
	return cmds
}

// imageCommand renders the whole-frame particleex image command used in
// image mode, referencing a PNG previously copied into the image directory.
func imageCommand(name string, p Params) string {
	return fmt.Sprintf(
		"execute positioned ~ ~ ~ run particleex image %s %s %s %g 0 0 0 not %g 0 0 0 %d \"vy=0\" 1.0 %s",
		p.Particle, p.AnchorPos, name, p.Scale, p.PointsPerBlock, p.LifetimeTicks, p.Group,
	)
}
