package screens

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/camoforge/cmd/camoforge/wizard/components"
	"github.com/mrsinham/camoforge/internal/config"
	"github.com/mrsinham/camoforge/internal/export"
	"github.com/mrsinham/camoforge/internal/filter"
	"github.com/mrsinham/camoforge/internal/noise"
	"github.com/mrsinham/camoforge/internal/palette"
	"github.com/mrsinham/camoforge/internal/pattern"
)

// MaxVariants bounds the number of images one wizard run renders.
const MaxVariants = 100

// PatternScreen edits every field of a render job.
type PatternScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	config    *config.Config
	catalog   *palette.Catalog
	variants  *int
	width     int
	height    int
	done      bool
	cancelled bool

	// String versions for form binding (huh binds to strings)
	paletteStr    string
	scaleStr      string
	contrastStr   string
	brightnessStr string
	seedStr       string
	widthStr      string
	heightStr     string
	variantsStr   string
	alphaStr      string
}

// NewPatternScreen creates the job editor bound to cfg and variants.
func NewPatternScreen(cfg *config.Config, cat *palette.Catalog, variants *int) *PatternScreen {
	if cat == nil {
		cat = palette.DefaultCatalog()
	}
	if *variants <= 0 {
		*variants = 1
	}
	if style, err := pattern.ParseStyle(cfg.Pattern); err == nil {
		cfg.Pattern = string(style)
	}
	if cfg.Vision == "" {
		cfg.Vision = string(filter.Normal)
	}

	s := &PatternScreen{
		helpPanel:     components.NewHelpPanel(),
		config:        cfg,
		catalog:       cat,
		variants:      variants,
		paletteStr:    strings.Join(cfg.Palette, ", "),
		scaleStr:      formatFloat(cfg.Scale),
		contrastStr:   formatFloat(cfg.Contrast),
		brightnessStr: formatFloat(cfg.Brightness),
		seedStr:       formatFloat(cfg.Seed),
		widthStr:      strconv.Itoa(cfg.Width),
		heightStr:     strconv.Itoa(cfg.Height),
		variantsStr:   strconv.Itoa(*variants),
		alphaStr:      formatFloat(cfg.Alpha),
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("pattern").
				Title("Pattern").
				Options(styleOptions()...).
				Value(&cfg.Pattern),

			huh.NewSelect[string]().
				Key("preset").
				Title("Preset").
				OptionsFunc(s.presetOptions, &cfg.Pattern).
				Value(&cfg.Preset),

			huh.NewInput().
				Key("palette").
				Title("Custom Palette").
				Placeholder("#2d3d1f, #4a5a3c, #6b7a4f").
				Value(&s.paletteStr).
				Validate(validatePalette),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("scale").
				Title("Scale").
				Value(&s.scaleStr).
				Validate(validateFloatRange(pattern.MinScale, pattern.MaxScale)),

			huh.NewInput().
				Key("contrast").
				Title("Contrast").
				Value(&s.contrastStr).
				Validate(validateFloatRange(pattern.MinContrast, pattern.MaxContrast)),

			huh.NewInput().
				Key("brightness").
				Title("Brightness").
				Value(&s.brightnessStr).
				Validate(validateFloatRange(-1, 1)),

			huh.NewInput().
				Key("seed").
				Title("Seed").
				Value(&s.seedStr).
				Validate(validateFloat),

			huh.NewSelect[string]().
				Key("noise").
				Title("Noise Backend").
				Options(backendOptions()...).
				Value(&cfg.Noise),

			huh.NewSelect[string]().
				Key("grain").
				Title("Grain").
				Options(
					huh.NewOption("Seeded (reproducible)", string(pattern.GrainSeeded)),
					huh.NewOption("Entropy (differs every render)", string(pattern.GrainEntropy)),
				).
				Value(&cfg.Grain),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("width").
				Title("Width").
				Value(&s.widthStr).
				Validate(validateDimension),

			huh.NewInput().
				Key("height").
				Title("Height").
				Value(&s.heightStr).
				Validate(validateDimension),

			huh.NewInput().
				Key("variants").
				Title("Variants").
				Value(&s.variantsStr).
				Validate(validateVariants),

			huh.NewInput().
				Key("output").
				Title("Output File").
				Value(&cfg.Output).
				Validate(validateOutput),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("background").
				Title("Background Image").
				Placeholder("leave empty for none").
				Value(&cfg.Background).
				Validate(validateBackground),

			huh.NewInput().
				Key("alpha").
				Title("Overlay Opacity").
				Value(&s.alphaStr).
				Validate(validateFloatRange(0, 1)),

			huh.NewConfirm().
				Key("show_overlay").
				Title("Show Overlay").
				Value(&cfg.ShowOverlay),

			huh.NewSelect[string]().
				Key("vision").
				Title("Vision").
				Options(visionOptions()...).
				Value(&cfg.Vision),

			huh.NewConfirm().
				Key("edges").
				Title("Edge Detection").
				Value(&cfg.Edges),

			huh.NewConfirm().
				Key("caption").
				Title("Caption").
				Value(&cfg.Caption),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

func styleOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, st := range pattern.AllStyles() {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s - %s", st, st.Description()), string(st)))
	}
	return opts
}

func backendOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, b := range noise.AllBackends() {
		opts = append(opts, huh.NewOption(string(b), string(b)))
	}
	return opts
}

func visionOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, m := range filter.AllVisionModes() {
		opts = append(opts, huh.NewOption(string(m), string(m)))
	}
	return opts
}

// presetOptions lists the presets recommended for the selected pattern.
// A preset that is not recommended stays selectable so a loaded job keeps
// its value.
func (s *PatternScreen) presetOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("None (default palette)", "")}

	style, err := pattern.ParseStyle(s.config.Pattern)
	if err != nil {
		return opts
	}
	presets := s.catalog.Presets(style.PresetCategories()...)
	seen := false
	for _, p := range presets {
		opts = append(opts, huh.NewOption(p.Name(), p.ID))
		seen = seen || p.ID == s.config.Preset
	}
	if !seen && s.config.Preset != "" {
		if p, ok := s.catalog.Find(s.config.Preset); ok {
			opts = append(opts, huh.NewOption(p.Name(), p.ID))
		}
	}
	return opts
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validateFloat(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func validateFloatRange(lo, hi float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if v < lo || v > hi {
			return fmt.Errorf("must be between %g and %g", lo, hi)
		}
		return nil
	}
}

func validateIntRange(s string, lo, hi int) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < lo || n > hi {
		return fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return nil
}

func validateDimension(s string) error {
	return validateIntRange(s, 1, pattern.MaxDimension)
}

func validateVariants(s string) error {
	return validateIntRange(s, 1, MaxVariants)
}

func validatePalette(s string) error {
	for _, entry := range splitPalette(s) {
		if !palette.Valid(entry) {
			return fmt.Errorf("%q is not a hex color", entry)
		}
	}
	return nil
}

func validateOutput(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("output file is required")
	}
	_, err := export.FormatFromPath(s)
	return err
}

func validateBackground(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot read background: %w", err)
	}
	if info.IsDir() {
		return errors.New("background must be a file")
	}
	return nil
}

func splitPalette(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Init implements tea.Model
func (s *PatternScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *PatternScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.helpPanel.SetSize(msg.Width/3, msg.Height/2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
		s.syncConfigFromForm()
	}

	return s, cmd
}

// syncConfigFromForm parses the string inputs back into the job. Values
// that fail to parse keep their previous setting.
func (s *PatternScreen) syncConfigFromForm() {
	c := s.config
	c.Palette = splitPalette(s.paletteStr)
	if v, err := strconv.ParseFloat(strings.TrimSpace(s.scaleStr), 64); err == nil {
		c.Scale = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s.contrastStr), 64); err == nil {
		c.Contrast = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s.brightnessStr), 64); err == nil {
		c.Brightness = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s.seedStr), 64); err == nil {
		c.Seed = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s.alphaStr), 64); err == nil {
		c.Alpha = v
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s.widthStr)); err == nil {
		c.Width = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s.heightStr)); err == nil {
		c.Height = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s.variantsStr)); err == nil && n > 0 {
		*s.variants = n
	}
	c.Background = strings.TrimSpace(c.Background)
	c.Output = strings.TrimSpace(c.Output)
}

// View implements tea.Model
func (s *PatternScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("PATTERN - Configure the render job")
	subtitle := components.SubtitleStyle.Render("Tab/Shift+Tab: navigate | Enter: next | Esc: cancel")

	formView := s.form.View()
	helpView := s.helpPanel.View()

	var content string
	if s.width > 100 {
		formWidth := s.width * 2 / 3
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(formWidth).Render(formView),
			helpView,
		)
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left, formView, "", helpView)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", content)
}

// Done returns true if the form is complete
func (s *PatternScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user cancelled
func (s *PatternScreen) Cancelled() bool {
	return s.cancelled
}
