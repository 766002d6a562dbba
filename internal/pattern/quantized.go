package pattern

import (
	"image"
	"math"

	"github.com/mrsinham/camoforge/internal/colorutil"
	"github.com/mrsinham/camoforge/internal/noise"
)

const quantizedOctaves = 4

// QuantizedGenerator maps contrast-curved turbulence onto the palette.
type QuantizedGenerator struct{}

// Style returns the family rendered by this generator.
func (g *QuantizedGenerator) Style() Style { return Quantized }

// Generate renders the quantized noise.
func (g *QuantizedGenerator) Generate(f noise.Field, p Params) *image.RGBA {
	p = p.Normalize()
	c := newCanvas(p.Width, p.Height)
	last := float64(len(p.Palette) - 1)

	for y := 0; y < p.Height; y++ {
		ny := (float64(y) + p.Seed + 100) / p.Scale
		for x := 0; x < p.Width; x++ {
			nx := (float64(x) + p.Seed) / p.Scale
			n := noise.Turbulence(f, nx, ny, quantizedOctaves)
			n = colorutil.Clamp((n-0.5)*p.Contrast+0.5, 0, 1)
			c.set(x, y, p.Palette[int(math.Floor(n*last))])
		}
	}

	c.brightnessOverlay(p.Brightness)
	return c.opaque()
}
