// Package palette parses user palettes and serves the preset catalog.
package palette

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/mrsinham/camoforge/internal/colorutil"
)

// Palette is an ordered list of colors. Order matters: generators use it as
// an index space for quantization and cycling.
type Palette []colorutil.RGB

// Fallback replaces any palette entry that is not a valid hex color.
const Fallback = "#000000"

var hexPattern = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

var defaultHex = []string{"#2d3d1f", "#4a5a3c", "#5a6c3a", "#3d4a2c"}

// Default returns the built-in woodland palette used when none is given.
func Default() Palette {
	return FromHex(defaultHex)
}

// Valid reports whether s is "#RGB" or "#RRGGBB".
func Valid(s string) bool {
	return hexPattern.MatchString(s)
}

// Sanitize returns s when it is a valid hex color and Fallback otherwise.
func Sanitize(s string) string {
	if Valid(s) {
		return s
	}
	return Fallback
}

// Parse splits a comma-separated list of hex colors. Blank entries are
// dropped; invalid entries become black and are reported in rejected so the
// caller can warn about them.
func Parse(text string) (p Palette, rejected []string) {
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !Valid(part) {
			rejected = append(rejected, part)
		}
		p = append(p, colorutil.HexToRGB(Sanitize(part)))
	}
	return p, rejected
}

// FromHex converts hex strings to a palette, sanitizing each entry.
func FromHex(hexes []string) Palette {
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		p = append(p, colorutil.HexToRGB(Sanitize(strings.TrimSpace(h))))
	}
	return p
}

// OrDefault returns p, or the default palette when p is empty.
func (p Palette) OrDefault() Palette {
	if len(p) == 0 {
		return Default()
	}
	return p
}

// At returns the i-th color, cycling through the palette.
func (p Palette) At(i int) colorutil.RGB {
	n := len(p)
	return p[((i%n)+n)%n]
}

// Hex returns the palette as "#rrggbb" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

// String returns the palette in the comma-separated form Parse accepts.
func (p Palette) String() string {
	return strings.Join(p.Hex(), ",")
}

// Random returns 3 to 6 uniformly random colors.
func Random(rng *rand.Rand) Palette {
	n := 3 + rng.IntN(4)
	p := make(Palette, n)
	for i := range p {
		p[i] = colorutil.HexToRGB(fmt.Sprintf("#%06x", rng.IntN(0xffffff)))
	}
	return p
}
