// Package help holds the contextual help shown next to wizard fields.
package help

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help information for all wizard fields, keyed by the
// form field key.
var Texts = map[string]HelpText{
	"pattern": {
		Title:       "PATTERN",
		Description: "Generator used to draw the pattern.",
		Details: `matte - smooth organic blotches, blended with overlay
stripes - horizontal bands with shaded edges
panels - noise-jittered panel grid with bevels
mosaic - pixel blocks in three layers
noise - the noise field quantized to the palette`,
	},
	"preset": {
		Title:       "PRESET",
		Description: "Named palette from the catalog.",
		Details:     "Only presets recommended for the chosen pattern are listed. A custom palette below takes precedence.",
	},
	"palette": {
		Title:       "CUSTOM PALETTE",
		Description: "Comma-separated hex colors, darkest first.",
		Details: `Format: #rrggbb or #rgb (e.g. #2d3d1f, #4a5a3c, #6b7a4f)
Leave empty to use the preset or the default palette.`,
	},
	"scale": {
		Title:       "SCALE",
		Description: "Size of the pattern features.",
		Details:     "Range 8 to 300. Larger values give bigger blotches, wider bands and larger blocks.",
	},
	"contrast": {
		Title:       "CONTRAST",
		Description: "Spread between the light and dark shades.",
		Details:     "Range 0.2 to 2.5. 1 keeps the palette as is.",
	},
	"brightness": {
		Title:       "BRIGHTNESS",
		Description: "Global lighten or darken overlay.",
		Details:     "Range -1 to 1. 0 leaves the pattern untouched.",
	},
	"seed": {
		Title:       "SEED",
		Description: "Offset into the noise field.",
		Details:     "The same seed and parameters always give the same pattern.",
	},
	"noise": {
		Title:       "NOISE BACKEND",
		Description: "Gradient noise implementation sampled by the generators.",
		Details: `classic - built-in permutation noise
simplex - OpenSimplex noise
perlin - reference Perlin noise`,
	},
	"grain": {
		Title:       "GRAIN",
		Description: "Source of the fine grain speckles.",
		Details:     "seeded grain is reproducible; entropy grain differs on every render.",
	},
	"width": {
		Title:       "WIDTH",
		Description: "Image width in pixels.",
		Details:     "Between 1 and 4096.",
	},
	"height": {
		Title:       "HEIGHT",
		Description: "Image height in pixels.",
		Details:     "Between 1 and 4096.",
	},
	"variants": {
		Title:       "VARIANTS",
		Description: "Number of images to render.",
		Details:     "Each variant advances the seed by one. Files are numbered after the output name (camo-001.png, ...).",
	},
	"background": {
		Title:       "BACKGROUND",
		Description: "Photograph to composite the pattern onto.",
		Details:     "PNG, JPEG, GIF, BMP, TIFF or WebP. Leave empty to render the pattern alone.",
	},
	"alpha": {
		Title:       "OVERLAY OPACITY",
		Description: "Opacity of the pattern over the background.",
		Details:     "Range 0 to 1.",
	},
	"show_overlay": {
		Title:       "SHOW OVERLAY",
		Description: "Draw the pattern over the background.",
		Details:     "Disable to inspect the background alone.",
	},
	"vision": {
		Title:       "VISION",
		Description: "Color-vision simulation applied to the composite.",
		Details: `protanopia - red-blind
deuteranopia - green-blind
tritanopia - blue-blind
monochrome - no color perception`,
	},
	"edges": {
		Title:       "EDGES",
		Description: "Replace the composite with its Sobel edge map.",
		Details:     "Shows where the pattern breaks up outlines.",
	},
	"caption": {
		Title:       "CAPTION",
		Description: "Stamp the style and seed into the bottom-right corner.",
	},
	"output": {
		Title:       "OUTPUT FILE",
		Description: "File written by the render.",
		Details:     "The extension picks the format: .png, .jpg, .bmp, .tif or .dcm.",
	},
}
