// Package render runs the full pipeline: pattern generation, compositing
// over the background and the inspection filters.
package render

import (
	"context"
	"fmt"
	"image"

	"github.com/mrsinham/camoforge/internal/composite"
	"github.com/mrsinham/camoforge/internal/filter"
	"github.com/mrsinham/camoforge/internal/noise"
	"github.com/mrsinham/camoforge/internal/pattern"
)

// Options describes one render.
type Options struct {
	Style  pattern.Style
	Params pattern.Params

	// Noise selects the noise backend. With the classic backend a zero
	// NoiseSeed uses the process-wide engine.
	Noise     noise.Backend
	NoiseSeed uint64
	// Field overrides Noise and NoiseSeed when set.
	Field noise.Field

	Background  image.Image
	Alpha       float64
	ShowOverlay bool

	Vision filter.VisionMode
	Edges  bool

	// Caption stamps the style and seed onto the composite.
	Caption bool
}

// DefaultOptions returns the initial working state: default parameters,
// the quantized noise family, overlay shown at 60% opacity.
func DefaultOptions() Options {
	return Options{
		Style:       pattern.Quantized,
		Params:      pattern.DefaultParams(),
		Noise:       noise.Classic,
		Alpha:       0.6,
		ShowOverlay: true,
		Vision:      filter.Normal,
	}
}

// Result holds the buffers produced by one render.
type Result struct {
	// Pattern is the raw generator output.
	Pattern *image.RGBA
	// Composite is the background with the pattern blended over it,
	// after filters.
	Composite *image.RGBA
	// Environment is the background alone (black without one), filtered
	// the same way, for side-by-side comparison.
	Environment *image.RGBA
}

// NoiseField resolves the noise source of o.
func (o Options) NoiseField() (noise.Field, error) {
	if o.Field != nil {
		return o.Field, nil
	}
	if (o.Noise == "" || o.Noise == noise.Classic) && o.NoiseSeed == 0 {
		return noise.Default(), nil
	}
	return noise.NewField(o.Noise, o.NoiseSeed)
}

// Render executes the pipeline. The context is checked between stages.
func Render(ctx context.Context, o Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := o.NoiseField()
	if err != nil {
		return nil, fmt.Errorf("noise: %w", err)
	}
	p := o.Params.Normalize()

	pat := pattern.Generate(o.Style, f, p)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	comp := composite.Composite(o.Background, pat, o.Alpha, o.ShowOverlay)
	if comp == pat {
		comp = clone(pat)
	}
	env := composite.Environment(o.Background, p.Width, p.Height)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vision := filter.ParseVisionMode(string(o.Vision))
	for _, img := range []*image.RGBA{comp, env} {
		filter.ColorVision(img, vision)
		if o.Edges {
			filter.EdgeDetect(img)
		}
	}

	if o.Caption {
		Stamp(comp, Caption(o.Style, p.Seed))
	}

	return &Result{Pattern: pat, Composite: comp, Environment: env}, nil
}

// Caption returns the default caption text for a render.
func Caption(s pattern.Style, seed float64) string {
	return fmt.Sprintf("%s seed %.2f", s, seed)
}

func clone(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out
}
