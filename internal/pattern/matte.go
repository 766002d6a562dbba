package pattern

import (
	"image"
	"math"

	"github.com/mrsinham/camoforge/internal/colorutil"
	"github.com/mrsinham/camoforge/internal/noise"
)

const (
	matteOctaves = 5
	matteGamma   = 1.3
	matteStreaks = 500
)

// MatteGenerator renders a tinted monochrome turbulence field darkened
// towards the edges.
type MatteGenerator struct{}

// Style returns the family rendered by this generator.
func (g *MatteGenerator) Style() Style { return Matte }

// Generate renders the matte texture.
func (g *MatteGenerator) Generate(f noise.Field, p Params) *image.RGBA {
	p = p.Normalize()
	c := newCanvas(p.Width, p.Height)
	tint := p.Palette[0]

	cx, cy := float64(p.Width)/2, float64(p.Height)/2
	bright := 1 + 0.2*p.Brightness

	for y := 0; y < p.Height; y++ {
		ny := (float64(y) + p.Seed + 100) / p.Scale
		dy := (float64(y) - cy) / cy
		for x := 0; x < p.Width; x++ {
			nx := (float64(x) + p.Seed) / p.Scale
			n := math.Pow(noise.Turbulence(f, nx, ny, matteOctaves), matteGamma)

			dx := (float64(x) - cx) / cx
			vig := 1 - 0.6*math.Sqrt(dx*dx+dy*dy)

			factor := colorutil.Clamp((n*0.4+0.8)*vig*p.Contrast*bright, 0, 2)
			c.set(x, y, colorutil.RGB{
				R: colorutil.ClampByte(float64(tint.R) * factor),
				G: colorutil.ClampByte(float64(tint.G) * factor),
				B: colorutil.ClampByte(float64(tint.B) * factor),
			})
		}
	}

	c.grain(p.grainRand(grainSaltMatte), matteStreaks)
	return c.opaque()
}
