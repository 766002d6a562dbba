// Package filter implements the inspection post-filters: color-vision
// deficiency simulation and Sobel edge detection. Filters mutate the buffer
// they are given and return it.
package filter

import (
	"image"
	"strings"

	"github.com/mrsinham/camoforge/internal/colorutil"
)

// VisionMode selects a color-vision simulation.
type VisionMode string

const (
	Normal       VisionMode = "normal"
	Protanopia   VisionMode = "protanopia"   // red-blind
	Deuteranopia VisionMode = "deuteranopia" // green-blind
	Tritanopia   VisionMode = "tritanopia"   // blue-blind
	Monochrome   VisionMode = "monochrome"   // no color perception
)

// AllVisionModes returns all supported modes, identity first.
func AllVisionModes() []VisionMode {
	return []VisionMode{Normal, Protanopia, Deuteranopia, Tritanopia, Monochrome}
}

// IsValid checks if a vision mode string is valid.
func IsValid(s string) bool {
	for _, m := range AllVisionModes() {
		if string(m) == s {
			return true
		}
	}
	return false
}

// ParseVisionMode parses s case-insensitively. Unknown modes map to Normal.
func ParseVisionMode(s string) VisionMode {
	s = strings.ToLower(strings.TrimSpace(s))
	if IsValid(s) {
		return VisionMode(s)
	}
	return Normal
}

// Matrix is a 3x3 color transform; row i produces output channel i from
// the input (R, G, B).
type Matrix [3][3]float64

// Apply transforms one color, rounding each channel to the nearest byte.
func (m Matrix) Apply(c colorutil.RGB) colorutil.RGB {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return colorutil.RGB{
		R: colorutil.ClampByte(m[0][0]*r + m[0][1]*g + m[0][2]*b),
		G: colorutil.ClampByte(m[1][0]*r + m[1][1]*g + m[1][2]*b),
		B: colorutil.ClampByte(m[2][0]*r + m[2][1]*g + m[2][2]*b),
	}
}

var lumaRow = [3]float64{0.299, 0.587, 0.114}

var visionMatrices = map[VisionMode]Matrix{
	Protanopia: {
		{0.567, 0.433, 0},
		{0.558, 0.442, 0},
		{0, 0.242, 0.758},
	},
	Deuteranopia: {
		{0.625, 0.375, 0},
		{0.7, 0.3, 0},
		{0, 0.3, 0.7},
	},
	Tritanopia: {
		{0.95, 0.05, 0},
		{0, 0.433, 0.567},
		{0, 0.475, 0.525},
	},
	Monochrome: {lumaRow, lumaRow, lumaRow},
}

// MatrixFor returns the transform of mode and false for the identity.
func MatrixFor(mode VisionMode) (Matrix, bool) {
	m, ok := visionMatrices[mode]
	return m, ok
}

// ColorVision applies the simulation for mode to every pixel of img in
// place. Alpha is left untouched; Normal and unknown modes are a no-op.
func ColorVision(img *image.RGBA, mode VisionMode) *image.RGBA {
	m, ok := MatrixFor(mode)
	if !ok || img == nil {
		return img
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			out := m.Apply(colorutil.RGB{R: row[i], G: row[i+1], B: row[i+2]})
			row[i], row[i+1], row[i+2] = out.R, out.G, out.B
		}
	}
	return img
}
