package pattern

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/mrsinham/camoforge/internal/colorutil"
	"github.com/mrsinham/camoforge/internal/palette"
)

// Canvas and parameter domains.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	MaxDimension  = 4096

	MinScale    = 8.0
	MaxScale    = 300.0
	MinContrast = 0.2
	MaxContrast = 2.5
)

// GrainMode selects the random source of the grain and scratch layers.
type GrainMode string

const (
	// GrainSeeded derives grain from Params.Seed, keeping output reproducible.
	GrainSeeded GrainMode = "seeded"
	// GrainEntropy draws grain from system randomness on every render.
	GrainEntropy GrainMode = "entropy"
)

// ParseGrainMode parses a grain mode; the empty string selects GrainSeeded.
func ParseGrainMode(s string) (GrainMode, error) {
	switch GrainMode(s) {
	case "", GrainSeeded:
		return GrainSeeded, nil
	case GrainEntropy:
		return GrainEntropy, nil
	default:
		return "", fmt.Errorf("invalid grain mode %q, valid options: [%s %s]", s, GrainSeeded, GrainEntropy)
	}
}

// Params are the inputs shared by every generator.
type Params struct {
	Width      int
	Height     int
	Scale      float64
	Contrast   float64
	Brightness float64
	Palette    palette.Palette
	// Seed offsets noise coordinates so regenerating yields a distinct but
	// deterministic pattern.
	Seed  float64
	Grain GrainMode
}

// DefaultParams returns the initial working parameters.
func DefaultParams() Params {
	return Params{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Scale:      100,
		Contrast:   1,
		Brightness: 0,
		Palette:    palette.Default(),
		Grain:      GrainSeeded,
	}
}

// Normalize clamps every field into its domain. Non-positive dimensions
// fall back to the default canvas size.
func (p Params) Normalize() Params {
	if p.Width <= 0 {
		p.Width = DefaultWidth
	}
	if p.Height <= 0 {
		p.Height = DefaultHeight
	}
	p.Width = colorutil.ClampInt(p.Width, 1, MaxDimension)
	p.Height = colorutil.ClampInt(p.Height, 1, MaxDimension)

	p.Scale = clampFinite(p.Scale, MinScale, MaxScale, 100)
	p.Contrast = clampFinite(p.Contrast, MinContrast, MaxContrast, 1)
	p.Brightness = clampFinite(p.Brightness, -1, 1, 0)
	if math.IsNaN(p.Seed) || math.IsInf(p.Seed, 0) {
		p.Seed = 0
	}
	p.Palette = p.Palette.OrDefault()
	if p.Grain != GrainEntropy {
		p.Grain = GrainSeeded
	}
	return p
}

func clampFinite(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return colorutil.Clamp(v, lo, hi)
}

// Grain stream salts. Changing one changes every seeded render of that
// generator.
const (
	grainSaltMatte  uint64 = 5
	grainSaltPanels uint64 = 6
)

// grainRand returns the random source for cosmetic grain. salt keeps the
// streams of different generators apart.
func (p Params) grainRand(salt uint64) *rand.Rand {
	if p.Grain == GrainEntropy {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(math.Float64bits(p.Seed), salt))
}
