// Package colorutil converts between hex strings and RGB triples and provides
// the small per-channel helpers the pattern generators share.
package colorutil

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// RGBA returns c as an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex returns c as a "#rrggbb" string.
func (c RGB) Hex() string {
	return RGBToHex(c)
}

// HexToRGB parses "#RGB" or "#RRGGBB". It does not validate: anything it
// cannot parse yields black.
func HexToRGB(s string) RGB {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}
}

// RGBToHex formats c as lowercase "#rrggbb".
func RGBToHex(c RGB) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampByte rounds v to the nearest integer and limits it to [0, 255].
func ClampByte(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(Clamp(math.Round(v), 0, 255))
}

// Shade scales every channel by (1 + percent/100), rounding and clamping.
// Negative percentages darken.
func Shade(c RGB, percent float64) RGB {
	f := 1 + percent/100
	return RGB{
		R: ClampByte(float64(c.R) * f),
		G: ClampByte(float64(c.G) * f),
		B: ClampByte(float64(c.B) * f),
	}
}

// Luminance returns the BT.601 luma of c on a 0..255 scale.
func Luminance(c RGB) float64 {
	return Luma(float64(c.R), float64(c.G), float64(c.B))
}

// Luma is 0.299R + 0.587G + 0.114B.
func Luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// Gray returns the neutral color (v, v, v).
func Gray(v uint8) RGB {
	return RGB{R: v, G: v, B: v}
}
