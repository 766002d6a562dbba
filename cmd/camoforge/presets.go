package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mrsinham/camoforge/cmd/camoforge/wizard/components"
	"github.com/mrsinham/camoforge/internal/palette"
	"github.com/mrsinham/camoforge/internal/pattern"
)

var (
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	presetIDStyle = lipgloss.NewStyle().Width(20)
)

func newPresetsCmd() *cobra.Command {
	var (
		style       string
		catalogPath string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List palette presets",
		Example: `  camoforge presets
  camoforge presets --style mosaic
  camoforge presets --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jf := jobFlags{catalogPath: catalogPath}
			cat, err := jf.catalog()
			if err != nil {
				return err
			}

			keys := cat.CategoryKeys()
			if style != "" {
				s, err := pattern.ParseStyle(style)
				if err != nil {
					return err
				}
				keys = s.PresetCategories()
			}

			out := cmd.OutOrStdout()
			if asJSON {
				groups := make(map[string][]palette.Preset, len(keys))
				for _, k := range keys {
					groups[k] = cat.Presets(k)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(groups)
			}

			for _, k := range keys {
				presets := cat.Presets(k)
				if len(presets) == 0 {
					continue
				}
				fmt.Fprintln(out, categoryStyle.Render(palette.CategoryLabel(k)))
				for _, p := range presets {
					fmt.Fprintf(out, "  %s %s  %s\n", presetIDStyle.Render(p.ID), components.Swatches(p.Palette()), p.Name())
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&style, "style", "s", "", "only list categories recommended for a pattern style")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "preset catalog file (YAML or JSON)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
