// Package screenshot renders a PPU frame buffer to a PNG file, scaled with
// golang.org/x/image/draw the same way the test harness compares golden
// frames against live output.
package screenshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/halcyon-systems/dmgcore/internal/ppu"
)

// shade maps a 2-bit DMG palette index to an RGB shade. Kept separate from
// pkg/display's copy since the two packages serve different consumers
// (file output vs. a live window) and have no reason to share state.
var shade = [4]color.RGBA{
	{0xE0, 0xF0, 0xE0, 0xFF},
	{0xA0, 0xB8, 0xA0, 0xFF},
	{0x60, 0x78, 0x60, 0xFF},
	{0x20, 0x30, 0x20, 0xFF},
}

// Save writes the frame to path as a PNG, scaled up by an integer factor
// using nearest-neighbor interpolation so the hard pixel edges of the
// original 160x144 image are preserved rather than blurred.
func Save(frame [ppu.ScreenHeight][ppu.ScreenWidth]uint8, path string, scale int) error {
	if scale < 1 {
		scale = 1
	}

	src := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			src.Set(x, y, shade[frame[y][x]&0x3])
		}
	}

	dst := src
	if scale > 1 {
		dst = image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth*scale, ppu.ScreenHeight*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, dst); err != nil {
		return fmt.Errorf("screenshot: encode %s: %w", path, err)
	}
	return nil
}

// Compare reports the summed squared RGBA channel difference between two
// equally-sized images, mirroring the golden-frame comparison used to
// grade automated test ROMs against known-good screenshots.
func Compare(a, b image.Image) (int64, error) {
	boundsA, boundsB := a.Bounds(), b.Bounds()
	if boundsA != boundsB {
		return 0, fmt.Errorf("screenshot: bounds mismatch: %v != %v", boundsA, boundsB)
	}

	var total int64
	for y := boundsA.Min.Y; y < boundsA.Max.Y; y++ {
		for x := boundsA.Min.X; x < boundsA.Max.X; x++ {
			r1, g1, b1, a1 := a.At(x, y).RGBA()
			r2, g2, b2, a2 := b.At(x, y).RGBA()
			total += sqDiff(r1, r2) + sqDiff(g1, g2) + sqDiff(b1, b2) + sqDiff(a1, a2)
		}
	}
	return total, nil
}

func sqDiff(a, b uint32) int64 {
	d := int64(a) - int64(b)
	return d * d
}
