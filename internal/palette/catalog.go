package palette

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// Preset categories of the catalog.
const (
	MilitaryCamouflage = "military_camouflage"
	CableBundles       = "cable_bundles"
	HardwarePanels     = "hardware_panels"
	OfficeBackgrounds  = "office_backgrounds"
	DigitalCamouflage  = "digital_camouflage"
	BlackMatte         = "black_matte"
)

var categoryLabels = map[string]string{
	MilitaryCamouflage: "Military camouflage",
	CableBundles:       "Cable bundles",
	HardwarePanels:     "Hardware panels",
	OfficeBackgrounds:  "Office backgrounds",
	DigitalCamouflage:  "Digital camouflage",
	BlackMatte:         "Black matte",
}

// CategoryLabel returns a display label for a category key.
func CategoryLabel(key string) string {
	if l, ok := categoryLabels[key]; ok {
		return l
	}
	return key
}

// Preset is one named palette of the catalog.
type Preset struct {
	ID     string   `yaml:"id" json:"id"`
	Label  string   `yaml:"label" json:"label"`
	Colors []string `yaml:"colors" json:"colors"`
}

// Name returns the label, falling back to the id.
func (p Preset) Name() string {
	switch {
	case p.Label != "":
		return p.Label
	case p.ID != "":
		return p.ID
	default:
		return "(unnamed)"
	}
}

// Palette returns the sanitized colors of the preset.
func (p Preset) Palette() Palette {
	return FromHex(p.Colors)
}

// Catalog groups presets by category.
type Catalog struct {
	Categories map[string][]Preset `yaml:"categories" json:"categories"`
}

//go:embed presets.yaml
var defaultCatalogData []byte

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogData)
	if err != nil {
		panic(fmt.Sprintf("embedded preset catalog: %v", err))
	}
	return c
}

// ParseCatalog decodes a catalog. JSON input is accepted as well since it
// is valid YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse preset catalog: %w", err)
	}
	if c.Categories == nil {
		c.Categories = map[string][]Preset{}
	}
	return &c, nil
}

// LoadCatalog reads a catalog file (YAML or JSON).
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset catalog: %w", err)
	}
	return ParseCatalog(data)
}

// CategoryKeys returns the category keys in sorted order.
func (c *Catalog) CategoryKeys() []string {
	keys := make([]string, 0, len(c.Categories))
	for k := range c.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Presets returns the presets of the given categories, in argument order.
// Unknown categories are skipped.
func (c *Catalog) Presets(categories ...string) []Preset {
	var out []Preset
	for _, cat := range categories {
		out = append(out, c.Categories[cat]...)
	}
	return out
}

// IDs returns every preset id, category by category.
func (c *Catalog) IDs() []string {
	var ids []string
	for _, p := range c.Presets(c.CategoryKeys()...) {
		ids = append(ids, p.ID)
	}
	return ids
}

// Find looks a preset up by id across all categories.
func (c *Catalog) Find(id string) (Preset, bool) {
	for _, key := range c.CategoryKeys() {
		if i := slices.IndexFunc(c.Categories[key], func(p Preset) bool { return p.ID == id }); i >= 0 {
			return c.Categories[key][i], true
		}
	}
	return Preset{}, false
}
