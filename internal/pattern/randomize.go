package pattern

import (
	"math"
	"math/rand/v2"

	"github.com/mrsinham/camoforge/internal/palette"
)

// Randomize rerolls seed, scale, contrast, brightness and palette of p,
// keeping its dimensions and grain mode. With a probability of 70% the
// palette comes from a catalog preset recommended for s; otherwise it is a
// random palette. The chosen preset id is returned, empty for a random
// palette. A nil catalog always yields a random palette.
func Randomize(rng *rand.Rand, s Style, cat *palette.Catalog, p Params) (Params, string) {
	p.Seed = rng.Float64() * 10000

	var presets []palette.Preset
	if cat != nil {
		presets = cat.Presets(s.PresetCategories()...)
	}

	presetID := ""
	if len(presets) > 0 && rng.Float64() > 0.3 {
		preset := presets[rng.IntN(len(presets))]
		p.Palette = preset.Palette()
		presetID = preset.ID
	} else {
		p.Palette = palette.Random(rng)
	}

	p.Scale = float64(20 + rng.IntN(250-20+1))
	p.Contrast = randomFloat(rng, 0.3, 2.2, 2)
	p.Brightness = randomFloat(rng, -0.8, 0.8, 2)
	return p, presetID
}

// randomFloat returns a uniform value in [lo, hi) rounded to the given
// number of decimals.
func randomFloat(rng *rand.Rand, lo, hi float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round((lo+rng.Float64()*(hi-lo))*pow) / pow
}
