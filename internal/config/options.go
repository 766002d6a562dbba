package config

import (
	"fmt"
	"math/rand/v2"

	"github.com/mrsinham/camoforge/internal/filter"
	"github.com/mrsinham/camoforge/internal/noise"
	"github.com/mrsinham/camoforge/internal/palette"
	"github.com/mrsinham/camoforge/internal/pattern"
	"github.com/mrsinham/camoforge/internal/render"
	"github.com/mrsinham/camoforge/internal/util"
)

// Default returns the initial working state. The palette is left empty so
// a preset set later takes effect; ResolvePalette falls back to the
// default palette.
func Default() *Config {
	o := render.DefaultOptions()
	p := o.Params
	return &Config{
		Pattern:     string(o.Style),
		Scale:       p.Scale,
		Contrast:    p.Contrast,
		Brightness:  p.Brightness,
		Noise:       string(o.Noise),
		Grain:       string(p.Grain),
		Width:       p.Width,
		Height:      p.Height,
		Alpha:       o.Alpha,
		ShowOverlay: o.ShowOverlay,
		Vision:      string(o.Vision),
		Output:      "pattern.png",
	}
}

// Validate checks the enumerated fields. Numeric fields are clamped at
// render time and never rejected.
func (c *Config) Validate() error {
	if _, err := pattern.ParseStyle(c.Pattern); err != nil {
		return err
	}
	if _, err := noise.ParseBackend(c.Noise); err != nil {
		return err
	}
	if _, err := pattern.ParseGrainMode(c.Grain); err != nil {
		return err
	}
	if c.Vision != "" && !filter.IsValid(c.Vision) {
		return fmt.Errorf("invalid vision mode %q, valid options: %v", c.Vision, filter.AllVisionModes())
	}
	return nil
}

// ResolvePalette returns the palette of c: the explicit colors when set,
// otherwise the named preset from cat. Rejected entries become black and
// are reported so the caller can warn about them.
func (c *Config) ResolvePalette(cat *palette.Catalog) (palette.Palette, []string, error) {
	if len(c.Palette) > 0 {
		p := make(palette.Palette, 0, len(c.Palette))
		var rejected []string
		for _, h := range c.Palette {
			parsed, bad := palette.Parse(h)
			p = append(p, parsed...)
			rejected = append(rejected, bad...)
		}
		return p, rejected, nil
	}
	if c.Preset != "" {
		if cat == nil {
			cat = palette.DefaultCatalog()
		}
		preset, ok := cat.Find(c.Preset)
		if !ok {
			if hint := util.Closest(c.Preset, cat.IDs(), 3); hint != "" {
				return nil, nil, fmt.Errorf("unknown preset %q, did you mean %q?", c.Preset, hint)
			}
			return nil, nil, fmt.Errorf("unknown preset %q", c.Preset)
		}
		return preset.Palette(), nil, nil
	}
	return palette.Default(), nil, nil
}

// RenderOptions converts c into pipeline options. The background path is
// not loaded; callers attach the decoded image themselves. The returned
// slice lists palette entries that were replaced with black.
func (c *Config) RenderOptions(cat *palette.Catalog) (render.Options, []string, error) {
	if err := c.Validate(); err != nil {
		return render.Options{}, nil, err
	}
	style, _ := pattern.ParseStyle(c.Pattern)
	backend, _ := noise.ParseBackend(c.Noise)
	grain, _ := pattern.ParseGrainMode(c.Grain)

	pal, rejected, err := c.ResolvePalette(cat)
	if err != nil {
		return render.Options{}, nil, err
	}

	return render.Options{
		Style: style,
		Params: pattern.Params{
			Width:      c.Width,
			Height:     c.Height,
			Scale:      c.Scale,
			Contrast:   c.Contrast,
			Brightness: c.Brightness,
			Palette:    pal,
			Seed:       c.Seed,
			Grain:      grain,
		},
		Noise:       backend,
		NoiseSeed:   c.NoiseSeed,
		Alpha:       c.Alpha,
		ShowOverlay: c.ShowOverlay,
		Vision:      filter.ParseVisionMode(c.Vision),
		Edges:       c.Edges,
		Caption:     c.Caption,
	}, rejected, nil
}

// Randomize rerolls seed, scale, contrast, brightness and palette the way
// the editor's randomize action does. The palette is stored explicitly so
// the job reproduces even if the catalog changes; Preset records where it
// came from.
func (c *Config) Randomize(rng *rand.Rand, cat *palette.Catalog) error {
	if cat == nil {
		cat = palette.DefaultCatalog()
	}
	opts, _, err := c.RenderOptions(cat)
	if err != nil {
		return err
	}
	p, presetID := pattern.Randomize(rng, opts.Style, cat, opts.Params)
	c.Seed = p.Seed
	c.Scale = p.Scale
	c.Contrast = p.Contrast
	c.Brightness = p.Brightness
	c.Preset = presetID
	c.Palette = p.Palette.Hex()
	return nil
}
