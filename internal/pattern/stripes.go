package pattern

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/mrsinham/camoforge/internal/colorutil"
	"github.com/mrsinham/camoforge/internal/noise"
)

const (
	minStripes = 8
	maxStripes = 25

	// The band rectangle overhangs its nominal width and the canvas height
	// so rotated edges never expose the background.
	stripeOverhangX = 10.0
	stripeOverhangY = 30.0
)

// StripesGenerator renders slightly rotated vertical bands, each shaded
// from its palette color to two darker tones.
type StripesGenerator struct{}

// Style returns the family rendered by this generator.
func (g *StripesGenerator) Style() Style { return Stripes }

// Generate renders the banded stripes.
func (g *StripesGenerator) Generate(f noise.Field, p Params) *image.RGBA {
	p = p.Normalize()
	c := newCanvas(p.Width, p.Height)

	bg := colorutil.ClampInt(11+int(math.Round(15*p.Brightness)), 0, 40)
	c.fill(colorutil.Gray(uint8(bg)))

	n := stripeCount(p.Scale)
	w, h := float64(p.Width), float64(p.Height)
	s := p.Seed

	for i := 0; i < n; i++ {
		fi := float64(i)
		b := band{
			x:     fi/float64(n)*w + f.Noise2((fi+s)*0.3, (fi+s)*0.1)*12,
			width: math.Max(6, w/float64(n)*0.95+f.Noise2(fi+s, 10+s)*20),
			angle: f.Noise2(fi+s, (fi+s)*0.5) * 0.08,
		}
		b.ramp = stripeRamp(p.Palette.At(i), p.Contrast, b.width)
		b.draw(c, h)
	}

	c.fillAll(black, colorutil.Clamp(0.12-0.05*p.Brightness, 0.02, 0.25), overlay)
	return c.opaque()
}

// band is one stripe in its own frame: translated to x, rotated by angle.
type band struct {
	x, width, angle float64
	ramp            []colorutil.RGB
}

// stripeRamp samples the band gradient at every whole pixel of its width.
func stripeCount(scale float64) int {
	return colorutil.ClampInt(int(math.Floor(scale/12)), minStripes, maxStripes)
}

func stripeRamp(col colorutil.RGB, contrast, width float64) []colorutil.RGB {
	grad := gg.NewLinearGradientBrush(0, 0, width, 0).
		AddColorStop(0, toGG(col)).
		AddColorStop(0.5, toGG(colorutil.Shade(col, -8*contrast))).
		AddColorStop(1, toGG(colorutil.Shade(col, -16*contrast)))

	ramp := make([]colorutil.RGB, int(math.Ceil(width))+1)
	for i := range ramp {
		ramp[i] = fromGG(grad.ColorAt(float64(i), 0))
	}
	return ramp
}

// draw rasterizes the band rectangle by mapping each pixel center back
// into the band frame.
func (b band) draw(c *canvas, h float64) {
	sin, cos := math.Sincos(b.angle)
	lx0, lx1 := -stripeOverhangX, b.width+stripeOverhangX
	ly0, ly1 := -stripeOverhangY, h+stripeOverhangY

	// Device-space bounds of the rotated rectangle.
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, lx := range []float64{lx0, lx1} {
		for _, ly := range []float64{ly0, ly1} {
			dx := b.x + cos*lx - sin*ly
			minX = math.Min(minX, dx)
			maxX = math.Max(maxX, dx)
		}
	}
	x0 := max(0, int(math.Floor(minX)))
	x1 := min(c.w, int(math.Ceil(maxX)))

	last := len(b.ramp) - 1
	for py := 0; py < c.h; py++ {
		dy := float64(py) + 0.5
		for px := x0; px < x1; px++ {
			dx := float64(px) + 0.5 - b.x
			lx := cos*dx + sin*dy
			ly := -sin*dx + cos*dy
			if lx < lx0 || lx >= lx1 || ly < ly0 || ly >= ly1 {
				continue
			}
			i := colorutil.ClampInt(int(math.Round(lx)), 0, last)
			c.set(px, py, b.ramp[i])
		}
	}
}

func toGG(c colorutil.RGB) gg.RGBA {
	return gg.RGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

func fromGG(c gg.RGBA) colorutil.RGB {
	return colorutil.RGB{
		R: colorutil.ClampByte(c.R * 255),
		G: colorutil.ClampByte(c.G * 255),
		B: colorutil.ClampByte(c.B * 255),
	}
}
