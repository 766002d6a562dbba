// Package wizard provides an interactive TUI for editing and rendering a
// pattern job.
package wizard

import (
	"github.com/mrsinham/camoforge/internal/config"
	"github.com/mrsinham/camoforge/internal/palette"
)

// WizardState holds the job edited by the wizard.
type WizardState struct {
	Config *config.Config
	// Variants is the number of images rendered, one seed apart.
	Variants int
	Catalog  *palette.Catalog
}

// NewState returns a state for cfg, filling defaults for nil values.
func NewState(cfg *config.Config, cat *palette.Catalog) *WizardState {
	if cfg == nil {
		cfg = config.Default()
	}
	if cat == nil {
		cat = palette.DefaultCatalog()
	}
	return &WizardState{Config: cfg, Variants: 1, Catalog: cat}
}
