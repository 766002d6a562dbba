package pattern

import (
	"image"
	"math"

	"github.com/mrsinham/camoforge/internal/colorutil"
	"github.com/mrsinham/camoforge/internal/noise"
	"github.com/mrsinham/camoforge/internal/palette"
)

// mosaicLayer is one pass of blocks: size relative to the base block and
// the share of cells that receive a block.
type mosaicLayer struct {
	size, density float64
}

var mosaicLayers = []mosaicLayer{
	{size: 2.0, density: 0.6},
	{size: 1.0, density: 0.8},
	{size: 0.5, density: 1.0},
}

// MosaicGenerator renders three layers of noise-placed rectangular blocks.
type MosaicGenerator struct{}

// Style returns the family rendered by this generator.
func (g *MosaicGenerator) Style() Style { return Mosaic }

// Generate renders the mosaic. Every pixel ends up exactly one of
// AdjustPalette(p.Palette, p.Contrast) when p.Brightness is zero.
func (g *MosaicGenerator) Generate(f noise.Field, p Params) *image.RGBA {
	p = p.Normalize()
	colors := AdjustPalette(p.Palette, p.Contrast)
	c := newCanvas(p.Width, p.Height)
	c.fill(colors[0])

	base := mosaicBase(p.Scale)
	for _, l := range mosaicLayers {
		drawMosaicLayer(c, f, base*l.size, l.density, colors, p.Seed)
	}

	c.brightnessOverlay(p.Brightness)
	return c.opaque()
}

// mosaicBase is the block size of the first layer in pixels.
func mosaicBase(scale float64) float64 {
	return colorutil.Clamp(math.Floor(scale/3), 5, 100)
}

func drawMosaicLayer(c *canvas, f noise.Field, size, density float64, colors palette.Palette, s float64) {
	ps := math.Max(2, math.Floor(size))
	cols := int(math.Ceil(float64(c.w)/ps)) + 1
	rows := int(math.Ceil(float64(c.h)/ps)) + 1
	n := len(colors)

	for r := 0; r < rows; r++ {
		fr := float64(r)
		for col := 0; col < cols; col++ {
			fc := float64(col)
			if (f.Noise2((fc+s)*0.1, (fr+s)*0.1)+1)/2 <= 1-density {
				continue
			}

			offX := f.Noise2((fc+s)*0.3, (fr+s)*0.3) * ps * 0.3
			offY := f.Noise2((fc+s)*0.3+100, (fr+s)*0.3+100) * ps * 0.3

			sw := (f.Noise2((fc+s)*0.5, (fr+s)*0.5+200) + 1) / 2
			sh := (f.Noise2((fc+s)*0.5+300, (fr+s)*0.5+300) + 1) / 2
			pw := ps * (0.8 + sw*0.4)
			ph := ps * (0.8 + sh*0.4)

			cn := (f.Noise2((fc+s)*0.7+500, (fr+s)*0.7+500) + 1) / 2
			idx := int(math.Floor(cn*float64(n))) % n
			if idx < 0 {
				idx += n
			}

			x := math.Floor(fc*ps + offX)
			y := math.Floor(fr*ps + offY)
			c.fillRect(x, y, math.Ceil(pw), math.Ceil(ph), colors[idx], 1, sourceOver)
		}
	}
}

// AdjustPalette pushes the palette's perceived luminances apart
// (contrast > 1) or together (contrast < 1) while keeping each hue.
func AdjustPalette(p palette.Palette, contrast float64) palette.Palette {
	out := make(palette.Palette, len(p))
	for i, col := range p {
		if contrast == 1 {
			out[i] = col
			continue
		}
		lum := colorutil.Luminance(col) / 255
		adj := 0.5 + (lum-0.5)*contrast
		factor := adj / math.Max(lum, 0.001)
		out[i] = colorutil.RGB{
			R: colorutil.ClampByte(float64(col.R) * factor),
			G: colorutil.ClampByte(float64(col.G) * factor),
			B: colorutil.ClampByte(float64(col.B) * factor),
		}
	}
	return out
}
