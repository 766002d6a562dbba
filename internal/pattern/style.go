// Package pattern renders the procedural pattern families onto RGBA buffers.
package pattern

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/mrsinham/camoforge/internal/noise"
	"github.com/mrsinham/camoforge/internal/palette"
	"github.com/mrsinham/camoforge/internal/util"
)

// Style identifies a pattern family.
type Style string

const (
	Matte     Style = "matte"   // tinted monochrome turbulence with vignette
	Stripes   Style = "stripes" // rotated vertical gradient bands
	Panels    Style = "panels"  // grid of vented hardware panels
	Mosaic    Style = "mosaic"  // layered blocky pixels
	Quantized Style = "noise"   // turbulence quantized onto the palette
)

// AllStyles returns all supported styles.
func AllStyles() []Style {
	return []Style{Matte, Stripes, Panels, Mosaic, Quantized}
}

// IsValid checks if a style string is valid.
func IsValid(s string) bool {
	for _, valid := range AllStyles() {
		if string(valid) == s {
			return true
		}
	}
	return false
}

var styleAliases = map[string]Style{
	"black-matte":  Matte,
	"cable":        Stripes,
	"cable-bundle": Stripes,
	"hw-panel":     Panels,
	"hardware":     Panels,
	"digital":      Mosaic,
	"digital-camo": Mosaic,
	"military":     Quantized,
	"custom":       Quantized,
	"custom-noise": Quantized,
}

// ParseStyle parses a style name or one of its legacy aliases.
func ParseStyle(s string) (Style, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if IsValid(s) {
		return Style(s), nil
	}
	if st, ok := styleAliases[s]; ok {
		return st, nil
	}
	if hint := util.Closest(s, styleNames(), 2); hint != "" {
		return "", fmt.Errorf("invalid pattern %q, did you mean %q? valid options: %v", s, hint, AllStyles())
	}
	return "", fmt.Errorf("invalid pattern %q, valid options: %v", s, AllStyles())
}

// styleNames lists the canonical names followed by the sorted aliases.
func styleNames() []string {
	names := make([]string, 0, len(AllStyles())+len(styleAliases))
	for _, st := range AllStyles() {
		names = append(names, string(st))
	}
	aliases := make([]string, 0, len(styleAliases))
	for a := range styleAliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return append(names, aliases...)
}

// Description returns a one-line description for help output.
func (s Style) Description() string {
	switch s {
	case Matte:
		return "Textured matte: fine turbulence tinted by the first palette color"
	case Stripes:
		return "Banded stripes: slightly rotated vertical bands with shaded gradients"
	case Panels:
		return "Grid panels: rounded panels with vent slits and screws"
	case Mosaic:
		return "Blocky mosaic: three layers of noise-placed pixel blocks"
	case Quantized:
		return "Quantized noise: multi-octave noise mapped onto the palette"
	default:
		return string(s)
	}
}

// PresetCategories returns the catalog categories recommended for s.
func (s Style) PresetCategories() []string {
	switch s {
	case Matte:
		return []string{palette.BlackMatte}
	case Stripes:
		return []string{palette.CableBundles}
	case Panels:
		return []string{palette.HardwarePanels}
	case Mosaic:
		return []string{palette.DigitalCamouflage}
	default:
		return []string{palette.MilitaryCamouflage, palette.CableBundles, palette.HardwarePanels, palette.OfficeBackgrounds}
	}
}

// Generator renders one pattern family.
type Generator interface {
	// Style returns the family rendered by this generator.
	Style() Style

	// Generate renders a width x height opaque buffer. Parameters are
	// normalized first, so any Params value is accepted.
	Generate(f noise.Field, p Params) *image.RGBA
}

// GetGenerator returns the generator for the specified style.
func GetGenerator(s Style) Generator {
	switch s {
	case Matte:
		return &MatteGenerator{}
	case Stripes:
		return &StripesGenerator{}
	case Panels:
		return &PanelsGenerator{}
	case Mosaic:
		return &MosaicGenerator{}
	case Quantized:
		fallthrough
	default:
		return &QuantizedGenerator{}
	}
}

// Generate renders style s. A nil field uses the process-wide noise engine.
func Generate(s Style, f noise.Field, p Params) *image.RGBA {
	if f == nil {
		f = noise.Default()
	}
	return GetGenerator(s).Generate(f, p)
}
