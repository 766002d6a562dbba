package pattern

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/mrsinham/camoforge/internal/colorutil"
)

type blendMode int

const (
	sourceOver blendMode = iota
	overlay
)

var (
	white = colorutil.RGB{R: 255, G: 255, B: 255}
	black = colorutil.RGB{}
)

// canvas is an opaque RGB drawing surface over an *image.RGBA.
type canvas struct {
	img  *image.RGBA
	w, h int
}

func newCanvas(w, h int) *canvas {
	return wrapCanvas(image.NewRGBA(image.Rect(0, 0, w, h)))
}

func wrapCanvas(img *image.RGBA) *canvas {
	b := img.Bounds()
	return &canvas{img: img, w: b.Dx(), h: b.Dy()}
}

func (c *canvas) at(x, y int) colorutil.RGB {
	i := y*c.img.Stride + x*4
	p := c.img.Pix[i : i+3 : i+3]
	return colorutil.RGB{R: p[0], G: p[1], B: p[2]}
}

func (c *canvas) set(x, y int, col colorutil.RGB) {
	i := y*c.img.Stride + x*4
	p := c.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = col.R, col.G, col.B, 255
}

func (c *canvas) fill(col colorutil.RGB) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			c.set(x, y, col)
		}
	}
}

// fillRect paints the rectangle (x, y, w, h) with col at opacity alpha.
// Partially covered pixels receive alpha scaled by their covered area.
// Negative sizes extend the rectangle left or up.
func (c *canvas) fillRect(x, y, w, h float64, col colorutil.RGB, alpha float64, mode blendMode) {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	if w == 0 || h == 0 || alpha <= 0 {
		return
	}
	x0 := max(0, int(math.Floor(x)))
	y0 := max(0, int(math.Floor(y)))
	x1 := min(c.w, int(math.Ceil(x+w)))
	y1 := min(c.h, int(math.Ceil(y+h)))

	for py := y0; py < y1; py++ {
		cy := math.Min(float64(py+1), y+h) - math.Max(float64(py), y)
		for px := x0; px < x1; px++ {
			cx := math.Min(float64(px+1), x+w) - math.Max(float64(px), x)
			a := alpha * cx * cy
			if a <= 0 {
				continue
			}
			if a >= 1 && mode == sourceOver {
				c.set(px, py, col)
				continue
			}
			c.blend(px, py, col, a, mode)
		}
	}
}

func (c *canvas) blend(x, y int, col colorutil.RGB, a float64, mode blendMode) {
	dst := c.at(x, y)
	switch mode {
	case overlay:
		c.set(x, y, colorutil.Overlay(dst, col, a))
	default:
		c.set(x, y, colorutil.Over(dst, col, a))
	}
}

// fillAll blends col over the whole surface.
func (c *canvas) fillAll(col colorutil.RGB, alpha float64, mode blendMode) {
	c.fillRect(0, 0, float64(c.w), float64(c.h), col, alpha, mode)
}

// grain scatters count near-invisible white streaks in overlay mode.
func (c *canvas) grain(rng *rand.Rand, count int) {
	fw, fh := float64(c.w), float64(c.h)
	for i := 0; i < count; i++ {
		x, y := rng.Float64()*fw, rng.Float64()*fh
		c.fillRect(x, y, rng.Float64()*1.5, rng.Float64()*0.2, white, 0.01, overlay)
	}
}

// brightnessOverlay lightens (b > 0) or darkens (b < 0) the whole surface
// with a flat white or black wash of opacity |b| * 0.3.
func (c *canvas) brightnessOverlay(b float64) {
	if b == 0 {
		return
	}
	col := black
	if b > 0 {
		col = white
	}
	c.fillAll(col, math.Abs(b)*0.3, sourceOver)
}

// opaque forces alpha to 255 and returns the buffer.
func (c *canvas) opaque() *image.RGBA {
	for y := 0; y < c.h; y++ {
		row := c.img.Pix[y*c.img.Stride : y*c.img.Stride+c.w*4]
		for i := 3; i < len(row); i += 4 {
			row[i] = 255
		}
	}
	return c.img
}
