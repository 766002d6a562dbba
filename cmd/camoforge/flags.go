package main

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mrsinham/camoforge/internal/composite"
	"github.com/mrsinham/camoforge/internal/config"
	"github.com/mrsinham/camoforge/internal/export"
	"github.com/mrsinham/camoforge/internal/filter"
	"github.com/mrsinham/camoforge/internal/noise"
	"github.com/mrsinham/camoforge/internal/palette"
	"github.com/mrsinham/camoforge/internal/pattern"
	"github.com/mrsinham/camoforge/internal/render"
	"github.com/mrsinham/camoforge/internal/util"
)

// Views of a render that can be written out.
const (
	viewComposite   = "composite"
	viewPattern     = "pattern"
	viewEnvironment = "environment"
)

// jobFlags binds the render job flags shared by render and batch.
type jobFlags struct {
	cfg *config.Config

	configPath    string
	saveConfig    string
	catalogPath   string
	maxBackground string
	randomize     bool
	view          string
	jpegQuality   int
}

func addJobFlags(cmd *cobra.Command) *jobFlags {
	f := &jobFlags{cfg: config.Default()}
	c := f.cfg
	fl := cmd.Flags()

	fl.StringVarP(&c.Pattern, "pattern", "p", c.Pattern, fmt.Sprintf("pattern style: %s", joinNames(pattern.AllStyles())))
	fl.StringSliceVar(&c.Palette, "palette", nil, "comma-separated hex colors, e.g. #2d3d1f,#4a5a3c")
	fl.StringVar(&c.Preset, "preset", "", "palette preset id (see 'camoforge presets')")
	fl.Float64Var(&c.Scale, "scale", c.Scale, fmt.Sprintf("feature size, %g to %g", pattern.MinScale, pattern.MaxScale))
	fl.Float64Var(&c.Contrast, "contrast", c.Contrast, fmt.Sprintf("contrast, %g to %g", pattern.MinContrast, pattern.MaxContrast))
	fl.Float64Var(&c.Brightness, "brightness", c.Brightness, "brightness, -1 to 1")
	fl.Float64Var(&c.Seed, "seed", c.Seed, "pattern seed")
	fl.StringVar(&c.Noise, "noise", c.Noise, fmt.Sprintf("noise backend: %s", joinNames(noise.AllBackends())))
	fl.Uint64Var(&c.NoiseSeed, "noise-seed", c.NoiseSeed, "noise permutation seed (0 keeps the process engine for classic)")
	fl.StringVar(&c.Grain, "grain", c.Grain, "grain source: seeded, entropy")
	fl.IntVar(&c.Width, "width", c.Width, fmt.Sprintf("width in pixels, up to %d", pattern.MaxDimension))
	fl.IntVar(&c.Height, "height", c.Height, fmt.Sprintf("height in pixels, up to %d", pattern.MaxDimension))
	fl.StringVarP(&c.Background, "background", "b", "", "background image: jpeg, png, gif, bmp, tiff or webp")
	fl.Float64Var(&c.Alpha, "alpha", c.Alpha, "pattern opacity over the background, 0 to 1")
	fl.BoolVar(&c.ShowOverlay, "overlay", c.ShowOverlay, "blend the pattern over the background")
	fl.StringVar(&c.Vision, "vision", c.Vision, fmt.Sprintf("color vision simulation: %s", joinNames(filter.AllVisionModes())))
	fl.BoolVar(&c.Edges, "edges", false, "apply Sobel edge detection")
	fl.BoolVar(&c.Caption, "caption", false, "stamp the style and seed on the image")
	fl.StringVarP(&c.Output, "output", "o", c.Output, "output file; the extension selects png, jpg, bmp, tiff or dcm")

	fl.StringVarP(&f.configPath, "config", "c", "", "load the job from a YAML or TOML file; flags override it")
	fl.StringVar(&f.saveConfig, "save-config", "", "write the resolved job to a YAML or TOML file")
	fl.StringVar(&f.catalogPath, "catalog", "", "preset catalog file (YAML or JSON)")
	fl.StringVar(&f.maxBackground, "max-background", composite.DefaultMaxSize, "largest accepted background file (e.g. 10MB)")
	fl.BoolVar(&f.randomize, "randomize", false, "reroll seed, scale, contrast, brightness and palette")
	fl.StringVar(&f.view, "view", viewComposite, "buffer to write: composite, pattern, environment")
	fl.IntVar(&f.jpegQuality, "jpeg-quality", 90, "JPEG quality, 1 to 100")

	return f
}

// flagFields copies the value of one job flag between configs.
var flagFields = map[string]func(dst, src *config.Config){
	"pattern":    func(d, s *config.Config) { d.Pattern = s.Pattern },
	"palette":    func(d, s *config.Config) { d.Palette = s.Palette },
	"preset":     func(d, s *config.Config) { d.Preset = s.Preset },
	"scale":      func(d, s *config.Config) { d.Scale = s.Scale },
	"contrast":   func(d, s *config.Config) { d.Contrast = s.Contrast },
	"brightness": func(d, s *config.Config) { d.Brightness = s.Brightness },
	"seed":       func(d, s *config.Config) { d.Seed = s.Seed },
	"noise":      func(d, s *config.Config) { d.Noise = s.Noise },
	"noise-seed": func(d, s *config.Config) { d.NoiseSeed = s.NoiseSeed },
	"grain":      func(d, s *config.Config) { d.Grain = s.Grain },
	"width":      func(d, s *config.Config) { d.Width = s.Width },
	"height":     func(d, s *config.Config) { d.Height = s.Height },
	"background": func(d, s *config.Config) { d.Background = s.Background },
	"alpha":      func(d, s *config.Config) { d.Alpha = s.Alpha },
	"overlay":    func(d, s *config.Config) { d.ShowOverlay = s.ShowOverlay },
	"vision":     func(d, s *config.Config) { d.Vision = s.Vision },
	"edges":      func(d, s *config.Config) { d.Edges = s.Edges },
	"caption":    func(d, s *config.Config) { d.Caption = s.Caption },
	"output":     func(d, s *config.Config) { d.Output = s.Output },
}

// resolveConfig returns the job: the config file, if any, with explicitly
// set flags applied on top.
func (f *jobFlags) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	if f.configPath == "" {
		return f.cfg, nil
	}
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	cmd.Flags().Visit(func(fl *pflag.Flag) {
		if copyField, ok := flagFields[fl.Name]; ok {
			copyField(cfg, f.cfg)
		}
	})
	// A preset named on the command line beats a palette from the file.
	if cmd.Flags().Changed("preset") && !cmd.Flags().Changed("palette") {
		cfg.Palette = nil
	}
	return cfg, nil
}

func (f *jobFlags) catalog() (*palette.Catalog, error) {
	if f.catalogPath == "" {
		return palette.DefaultCatalog(), nil
	}
	return palette.LoadCatalog(f.catalogPath)
}

// resolve builds the render options of the job. The returned config
// reflects randomization so it can be saved and reproduced.
func (f *jobFlags) resolve(ctx context.Context, cmd *cobra.Command) (render.Options, *config.Config, error) {
	logger := loggerFromContext(ctx)

	cfg, err := f.resolveConfig(cmd)
	if err != nil {
		return render.Options{}, nil, err
	}
	if err := validateView(f.view); err != nil {
		return render.Options{}, nil, err
	}
	if _, err := export.FormatFromPath(cfg.Output); err != nil {
		return render.Options{}, nil, err
	}
	cat, err := f.catalog()
	if err != nil {
		return render.Options{}, nil, err
	}

	if f.randomize {
		if err := cfg.Randomize(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), cat); err != nil {
			return render.Options{}, nil, err
		}
		logger.Info("Randomized", "seed", fmt.Sprintf("%.2f", cfg.Seed), "preset", cfg.Preset, "scale", cfg.Scale)
	}

	opts, rejected, err := cfg.RenderOptions(cat)
	if err != nil {
		return render.Options{}, nil, err
	}
	if len(rejected) > 0 {
		logger.Warn("Invalid palette entries replaced with "+palette.Fallback, "entries", strings.Join(rejected, ","))
	}

	if cfg.Background != "" {
		bg, err := f.loadBackground(cfg.Background)
		if err != nil {
			return render.Options{}, nil, err
		}
		b := bg.Bounds()
		logger.Debug("Loaded background", "path", cfg.Background, "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()))
		opts.Background = bg
	}
	return opts, cfg, nil
}

func (f *jobFlags) loadBackground(path string) (image.Image, error) {
	maxBytes, err := util.ParseSize(f.maxBackground)
	if err != nil {
		return nil, fmt.Errorf("--max-background: %w", err)
	}
	return composite.LoadBackground(path, maxBytes)
}

func (f *jobFlags) exportOptions(opts render.Options) export.Options {
	return export.Options{
		JPEGQuality: f.jpegQuality,
		Description: render.Caption(opts.Style, opts.Params.Seed),
	}
}

func (f *jobFlags) save(ctx context.Context, cfg *config.Config) error {
	if f.saveConfig == "" {
		return nil
	}
	if err := config.Save(f.saveConfig, cfg); err != nil {
		return err
	}
	loggerFromContext(ctx).Info("Saved config", "path", f.saveConfig)
	return nil
}

func validateView(v string) error {
	switch v {
	case viewComposite, viewPattern, viewEnvironment:
		return nil
	}
	return fmt.Errorf("invalid view %q, valid options: [%s %s %s]", v, viewComposite, viewPattern, viewEnvironment)
}

func pickView(r *render.Result, view string) image.Image {
	switch view {
	case viewPattern:
		return r.Pattern
	case viewEnvironment:
		return r.Environment
	default:
		return r.Composite
	}
}

func joinNames[T ~string](items []T) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = string(it)
	}
	return strings.Join(names, ", ")
}
