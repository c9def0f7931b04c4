package datapack

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestPixelCommandOffsets(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, A: 255})
		}
	}

	// step = scale / pointsPerBlock = 0.3 / 10 = 0.03; the grid is centred
	// horizontally and its bottom row sits at the anchor height.
	cmds := pixelCommands(img, testParams())
	wantOffsets := []string{
		"~-0.0150 ~0.0300",
		"~0.0150 ~0.0300",
		"~-0.0150 ~0.0000",
		"~0.0150 ~0.0000",
	}
	if len(cmds) != len(wantOffsets) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(wantOffsets))
	}
	for i, want := range wantOffsets {
		if !strings.Contains(cmds[i], want) {
			t.Fatalf("command %d = %q, want offsets %q", i, cmds[i], want)
		}
	}
}

func TestPixelCommandSkipsTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{})
	img.SetNRGBA(2, 0, color.NRGBA{B: 10, A: 64})

	cmds := pixelCommands(img, testParams())
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2 (transparent pixel skipped)", len(cmds))
	}
	// Semi-opaque pixels keep their alpha in the colour parameters.
	if !strings.Contains(cmds[1], "0.2510") {
		t.Fatalf("semi-opaque alpha missing from %q", cmds[1])
	}
}

func TestImageCommandShape(t *testing.T) {
	cmd := imageCommand("frame_000007.png", testParams())
	for _, want := range []string{
		"particleex image minecraft:end_rod",
		"~ ~1 ~",
		"frame_000007.png",
		"0.3",
		"null",
	} {
		if !strings.Contains(cmd, want) {
			t.Fatalf("image command %q missing %q", cmd, want)
		}
	}
}
