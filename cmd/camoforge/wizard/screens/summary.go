package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/camoforge/cmd/camoforge/wizard/components"
	"github.com/mrsinham/camoforge/internal/config"
	"github.com/mrsinham/camoforge/internal/palette"
)

// SummaryAction represents the action selected on the summary screen
type SummaryAction int

const (
	// SummaryActionBack returns to the job editor
	SummaryActionBack SummaryAction = iota
	// SummaryActionRender renders the job
	SummaryActionRender
	// SummaryActionRandomize rerolls the pattern and shows the summary again
	SummaryActionRandomize
	// SummaryActionSaveConfig saves the job to a YAML or TOML file
	SummaryActionSaveConfig
	// SummaryActionCancel exits the wizard
	SummaryActionCancel
)

const (
	actionBack       = "back"
	actionRender     = "render"
	actionRandomize  = "randomize"
	actionSaveConfig = "save_config"
	actionCancel     = "cancel"
)

var (
	summaryPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(1, 2)

	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true).
				MarginBottom(1)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)

	summaryNoteStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Italic(true)

	cliCommandStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)

// SummaryScreen shows the job before it is rendered.
type SummaryScreen struct {
	form      *huh.Form
	config    *config.Config
	catalog   *palette.Catalog
	variants  int
	note      string
	action    string
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewSummaryScreen creates a new summary screen. note, if set, is shown
// above the actions (e.g. after a save).
func NewSummaryScreen(cfg *config.Config, cat *palette.Catalog, variants int, note string) *SummaryScreen {
	if cat == nil {
		cat = palette.DefaultCatalog()
	}
	s := &SummaryScreen{
		config:   cfg,
		catalog:  cat,
		variants: max(variants, 1),
		note:     note,
		action:   actionRender,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("Select an action").
				Options(
					huh.NewOption("Render", actionRender),
					huh.NewOption("Randomize and review", actionRandomize),
					huh.NewOption("Save configuration", actionSaveConfig),
					huh.NewOption("Back to edit", actionBack),
					huh.NewOption("Cancel and exit", actionCancel),
				).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *SummaryScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SummaryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			s.action = actionBack
			s.done = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *SummaryScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("SUMMARY - Review the job")

	panelWidth := 45
	left := summaryPanelStyle.Width(panelWidth).Render(s.buildParameterSummary())
	right := summaryPanelStyle.Width(panelWidth).Render(s.buildOutputPreview())
	panels := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	parts := []string{title, "", panels, "", s.buildCLICommand(), ""}
	if s.note != "" {
		parts = append(parts, summaryNoteStyle.Render(s.note), "")
	}
	parts = append(parts, s.form.View(), "", "Enter: Select action | Esc: Back")

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *SummaryScreen) buildParameterSummary() string {
	var sb strings.Builder

	sb.WriteString(summaryTitleStyle.Render("Parameters"))
	sb.WriteString("\n\n")

	c := s.config
	params := []struct {
		label string
		value string
	}{
		{"Pattern", c.Pattern},
		{"Size", fmt.Sprintf("%dx%d", c.Width, c.Height)},
		{"Scale", formatFloat(c.Scale)},
		{"Contrast", formatFloat(c.Contrast)},
		{"Brightness", formatFloat(c.Brightness)},
		{"Seed", formatFloat(c.Seed)},
		{"Noise", c.Noise},
		{"Grain", c.Grain},
		{"Vision", c.Vision},
		{"Edges", fmt.Sprintf("%t", c.Edges)},
	}
	if c.Background != "" {
		params = append(params,
			struct{ label, value string }{"Background", c.Background},
			struct{ label, value string }{"Opacity", formatFloat(c.Alpha)},
		)
	}

	for _, p := range params {
		sb.WriteString(summaryLabelStyle.Render(p.label + ": "))
		sb.WriteString(summaryValueStyle.Render(p.value))
		sb.WriteString("\n")
	}

	return sb.String()
}

// buildOutputPreview shows the resolved palette and the files to write.
func (s *SummaryScreen) buildOutputPreview() string {
	var sb strings.Builder

	sb.WriteString(summaryTitleStyle.Render("Palette"))
	sb.WriteString("\n\n")

	pal, _, err := s.config.ResolvePalette(s.catalog)
	if err != nil {
		sb.WriteString(summaryLabelStyle.Render(err.Error()))
	} else {
		source := "default"
		switch {
		case len(s.config.Palette) > 0:
			source = "custom"
		case s.config.Preset != "":
			source = s.config.Preset
		}
		sb.WriteString(components.Swatches(pal))
		sb.WriteString("\n")
		sb.WriteString(summaryLabelStyle.Render(source + ": "))
		sb.WriteString(summaryValueStyle.Render(pal.String()))
	}
	sb.WriteString("\n\n")

	sb.WriteString(summaryTitleStyle.Render("Output"))
	sb.WriteString("\n\n")
	for _, path := range OutputPaths(s.config.Output, s.variants, 3) {
		sb.WriteString(summaryValueStyle.Render(path))
		sb.WriteString("\n")
	}
	if s.variants > 3 {
		sb.WriteString(summaryLabelStyle.Render(fmt.Sprintf("... and %d more", s.variants-3)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (s *SummaryScreen) buildCLICommand() string {
	var sb strings.Builder

	sb.WriteString(summaryTitleStyle.Render("Equivalent CLI Command"))
	sb.WriteString("\n\n")
	sb.WriteString(cliCommandStyle.Render(CLICommand(s.config, s.variants)))

	return sb.String()
}

// CLICommand returns the camoforge invocation that renders the same job.
// Values equal to the defaults are omitted.
func CLICommand(c *config.Config, variants int) string {
	def := config.Default()
	parts := []string{"camoforge", "render"}
	if variants > 1 {
		parts = []string{"camoforge", "batch", fmt.Sprintf("-n %d", variants)}
	}

	add := func(flag, value string) {
		parts = append(parts, fmt.Sprintf("--%s %s", flag, shellQuote(value)))
	}

	add("pattern", c.Pattern)
	switch {
	case len(c.Palette) > 0:
		add("palette", strings.Join(c.Palette, ","))
	case c.Preset != "":
		add("preset", c.Preset)
	}
	floats := []struct {
		flag     string
		val, def float64
	}{
		{"scale", c.Scale, def.Scale},
		{"contrast", c.Contrast, def.Contrast},
		{"brightness", c.Brightness, def.Brightness},
		{"seed", c.Seed, def.Seed},
	}
	for _, f := range floats {
		if f.val != f.def {
			add(f.flag, formatFloat(f.val))
		}
	}
	if c.Noise != def.Noise {
		add("noise", c.Noise)
	}
	if c.NoiseSeed != 0 {
		add("noise-seed", fmt.Sprintf("%d", c.NoiseSeed))
	}
	if c.Grain != def.Grain {
		add("grain", c.Grain)
	}
	if c.Width != def.Width {
		add("width", fmt.Sprintf("%d", c.Width))
	}
	if c.Height != def.Height {
		add("height", fmt.Sprintf("%d", c.Height))
	}
	if c.Background != "" {
		add("background", c.Background)
		if c.Alpha != def.Alpha {
			add("alpha", formatFloat(c.Alpha))
		}
		if !c.ShowOverlay {
			parts = append(parts, "--overlay=false")
		}
	}
	if c.Vision != "" && c.Vision != def.Vision {
		add("vision", c.Vision)
	}
	if c.Edges {
		parts = append(parts, "--edges")
	}
	if c.Caption {
		parts = append(parts, "--caption")
	}
	add("output", c.Output)

	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t'\"$\\*?&|;<>()") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Done returns true if an action was selected
func (s *SummaryScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user cancelled
func (s *SummaryScreen) Cancelled() bool {
	return s.cancelled
}

// Action returns the selected action
func (s *SummaryScreen) Action() SummaryAction {
	switch s.action {
	case actionRender:
		return SummaryActionRender
	case actionRandomize:
		return SummaryActionRandomize
	case actionSaveConfig:
		return SummaryActionSaveConfig
	case actionCancel:
		return SummaryActionCancel
	default:
		return SummaryActionBack
	}
}
