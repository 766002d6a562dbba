package wizard

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/camoforge/cmd/camoforge/wizard/components"
	"github.com/mrsinham/camoforge/cmd/camoforge/wizard/screens"
	"github.com/mrsinham/camoforge/internal/config"
	"github.com/mrsinham/camoforge/internal/palette"
)

// Phase represents the current phase/screen of the wizard.
type Phase int

const (
	PhasePattern Phase = iota
	PhaseSummary
	PhaseSaveConfig
	PhaseProgress
	PhaseComplete
	PhaseError
)

// Wizard is the main orchestrator for the wizard interface.
type Wizard struct {
	state *WizardState
	ctx   context.Context
	rng   *rand.Rand

	phase Phase

	patternScreen    *screens.PatternScreen
	summaryScreen    *screens.SummaryScreen
	progressScreen   *screens.ProgressScreen
	completionScreen *screens.CompletionScreen
	errorScreen      *screens.ErrorScreen

	saveConfigForm *huh.Form
	configPath     string

	// send forwards progress from the render goroutine; set by Run.
	send func(tea.Msg)

	width  int
	height int

	cancelled bool
	finished  bool
	err       error
}

// NewWizard creates a wizard editing state, or a default job when nil.
func NewWizard(ctx context.Context, state *WizardState) *Wizard {
	if state == nil {
		state = NewState(nil, nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	w := &Wizard{
		state: state,
		ctx:   ctx,
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		phase: PhasePattern,
	}
	w.patternScreen = screens.NewPatternScreen(state.Config, state.Catalog, &state.Variants)
	return w
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return w.patternScreen.Init()
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = wsm.Width
		w.height = wsm.Height
	}

	switch w.phase {
	case PhasePattern:
		return w.updatePattern(msg)
	case PhaseSummary:
		return w.updateSummary(msg)
	case PhaseSaveConfig:
		return w.updateSaveConfig(msg)
	case PhaseProgress:
		return w.updateProgress(msg)
	case PhaseComplete:
		return w.updateComplete(msg)
	case PhaseError:
		return w.updateError(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case PhasePattern:
		return w.patternScreen.View()
	case PhaseSummary:
		return w.summaryScreen.View()
	case PhaseSaveConfig:
		return w.viewSaveConfig()
	case PhaseProgress:
		return w.progressScreen.View()
	case PhaseComplete:
		return w.completionScreen.View()
	case PhaseError:
		return w.errorScreen.View()
	}

	return ""
}

func (w *Wizard) updatePattern(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.patternScreen.Update(msg)
	if ps, ok := model.(*screens.PatternScreen); ok {
		w.patternScreen = ps
	}

	if w.patternScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.patternScreen.Done() {
		return w.transitionToSummary("")
	}

	return w, cmd
}

func (w *Wizard) transitionToPattern() (tea.Model, tea.Cmd) {
	w.phase = PhasePattern
	w.patternScreen = screens.NewPatternScreen(w.state.Config, w.state.Catalog, &w.state.Variants)
	return w, w.patternScreen.Init()
}

func (w *Wizard) transitionToSummary(note string) (tea.Model, tea.Cmd) {
	w.phase = PhaseSummary
	w.summaryScreen = screens.NewSummaryScreen(w.state.Config, w.state.Catalog, w.state.Variants, note)
	return w, w.summaryScreen.Init()
}

func (w *Wizard) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.summaryScreen.Update(msg)
	if ss, ok := model.(*screens.SummaryScreen); ok {
		w.summaryScreen = ss
	}

	if w.summaryScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.summaryScreen.Done() {
		switch w.summaryScreen.Action() {
		case screens.SummaryActionBack:
			return w.transitionToPattern()

		case screens.SummaryActionRender:
			return w.startRender()

		case screens.SummaryActionRandomize:
			if err := w.state.Config.Randomize(w.rng, w.state.Catalog); err != nil {
				return w.fail(err)
			}
			return w.transitionToSummary("Randomized: seed, scale, contrast, brightness and palette rerolled")

		case screens.SummaryActionSaveConfig:
			return w.transitionToSaveConfig()

		case screens.SummaryActionCancel:
			w.cancelled = true
			return w, tea.Quit
		}
	}

	return w, cmd
}

func (w *Wizard) transitionToSaveConfig() (tea.Model, tea.Cmd) {
	w.phase = PhaseSaveConfig
	if w.configPath == "" {
		w.configPath = "camoforge.yaml"
	}

	w.saveConfigForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("config_path").
				Title("Save configuration to").
				Description("The extension picks the format: .yaml, .yml or .toml").
				Value(&w.configPath).
				Validate(validateConfigPath),
		),
	).WithShowHelp(false)

	return w, w.saveConfigForm.Init()
}

func validateConfigPath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("path is required")
	}
	if _, err := config.Marshal(s, config.Default()); err != nil {
		return err
	}
	return nil
}

func (w *Wizard) updateSaveConfig(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			return w.transitionToSummary("")
		case "ctrl+c":
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.saveConfigForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.saveConfigForm = f
	}

	if w.saveConfigForm.State == huh.StateCompleted {
		if err := config.Save(w.configPath, w.state.Config); err != nil {
			return w.fail(err)
		}
		return w.transitionToSummary(fmt.Sprintf("Saved configuration to %s", w.configPath))
	}

	return w, cmd
}

func (w *Wizard) viewSaveConfig() string {
	title := components.TitleStyle.Render("Save Configuration")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		w.saveConfigForm.View(),
		"",
		"Enter: Save | Esc: Back",
	)
}

// startRender renders the job in a tea.Cmd and reports progress through
// the program.
func (w *Wizard) startRender() (tea.Model, tea.Cmd) {
	w.phase = PhaseProgress
	w.progressScreen = screens.NewProgressScreen(max(w.state.Variants, 1))

	ctx, state, send := w.ctx, w.state, w.send
	return w, func() tea.Msg {
		start := time.Now()

		opts, err := ToRenderOptions(state)
		if err != nil {
			return screens.ErrorMsg{Error: err}
		}

		files, size, err := Execute(ctx, state, opts, func(current, total int, path string) {
			if send != nil {
				send(screens.ProgressMsg{Current: current, Total: total, Path: path})
			}
		})
		if err != nil {
			return screens.ErrorMsg{Error: err}
		}

		return screens.CompletionMsg{
			Files:     files,
			TotalSize: size,
			Duration:  time.Since(start),
		}
	}
}

func (w *Wizard) fail(err error) (tea.Model, tea.Cmd) {
	w.err = err
	w.phase = PhaseError
	w.errorScreen = screens.NewErrorScreen(err)
	return w, nil
}

func (w *Wizard) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.ProgressMsg:
		w.progressScreen.SetProgress(msg.Current, msg.Total, msg.Path)
		return w, nil

	case screens.CompletionMsg:
		w.phase = PhaseComplete
		w.completionScreen = screens.NewCompletionScreen(msg)
		return w, nil

	case screens.ErrorMsg:
		return w.fail(msg.Error)
	}

	model, cmd := w.progressScreen.Update(msg)
	if ps, ok := model.(*screens.ProgressScreen); ok {
		w.progressScreen = ps
	}

	if w.progressScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	return w, cmd
}

func (w *Wizard) updateComplete(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.completionScreen.Update(msg)
	if cs, ok := model.(*screens.CompletionScreen); ok {
		w.completionScreen = cs
	}

	if w.completionScreen.Done() {
		w.finished = true
		return w, tea.Quit
	}

	return w, cmd
}

func (w *Wizard) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.errorScreen.Update(msg)
	if es, ok := model.(*screens.ErrorScreen); ok {
		w.errorScreen = es
	}

	if w.errorScreen.Done() {
		w.finished = true
		return w, tea.Quit
	}

	return w, cmd
}

// Run starts the interactive wizard on cfg. A nil cfg starts from the
// defaults. Cancelling is not an error.
func Run(ctx context.Context, cfg *config.Config, cat *palette.Catalog) error {
	w := NewWizard(ctx, NewState(cfg, cat))
	p := tea.NewProgram(w, tea.WithAltScreen(), tea.WithContext(ctx))
	w.send = p.Send

	finalModel, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("running wizard: %w", err)
	}

	if fw, ok := finalModel.(*Wizard); ok {
		if fw.cancelled {
			return nil
		}
		if fw.err != nil {
			return fw.err
		}
	}

	return nil
}
