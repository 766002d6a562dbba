package server

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrsinham/camoforge/internal/config"
)

// configFromValues overlays request values on the default config. Numeric
// values are only checked for syntax; the pipeline clamps their range.
// Non-finite floats keep their default.
func configFromValues(v url.Values) (*config.Config, error) {
	cfg := config.Default()

	strs := map[string]*string{
		"pattern": &cfg.Pattern,
		"preset":  &cfg.Preset,
		"noise":   &cfg.Noise,
		"grain":   &cfg.Grain,
		"vision":  &cfg.Vision,
	}
	for name, dst := range strs {
		if v.Has(name) {
			*dst = v.Get(name)
		}
	}

	floats := map[string]*float64{
		"scale":      &cfg.Scale,
		"contrast":   &cfg.Contrast,
		"brightness": &cfg.Brightness,
		"seed":       &cfg.Seed,
		"alpha":      &cfg.Alpha,
	}
	for name, dst := range floats {
		if !v.Has(name) {
			continue
		}
		f, err := strconv.ParseFloat(v.Get(name), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", name, v.Get(name))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		*dst = f
	}

	ints := map[string]*int{
		"width":  &cfg.Width,
		"height": &cfg.Height,
	}
	for name, dst := range ints {
		if !v.Has(name) {
			continue
		}
		n, err := strconv.Atoi(v.Get(name))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", name, v.Get(name))
		}
		*dst = n
	}

	bools := map[string]*bool{
		"show_overlay": &cfg.ShowOverlay,
		"edges":        &cfg.Edges,
		"caption":      &cfg.Caption,
	}
	for name, dst := range bools {
		if !v.Has(name) {
			continue
		}
		b, err := strconv.ParseBool(v.Get(name))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", name, v.Get(name))
		}
		*dst = b
	}

	if v.Has("noise_seed") {
		n, err := strconv.ParseUint(v.Get("noise_seed"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid noise_seed: %q", v.Get("noise_seed"))
		}
		cfg.NoiseSeed = n
	}

	if v.Has("palette") {
		cfg.Palette = nil
		for _, part := range strings.Split(v.Get("palette"), ",") {
			if part = strings.TrimSpace(part); part != "" {
				cfg.Palette = append(cfg.Palette, part)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
