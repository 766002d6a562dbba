package main

import (
	"github.com/spf13/cobra"

	"github.com/mrsinham/camoforge/cmd/camoforge/wizard"
	"github.com/mrsinham/camoforge/internal/config"
)

func newWizardCmd() *cobra.Command {
	var from, catalogPath string

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Edit and render a job interactively",
		Example: `  camoforge wizard
  camoforge wizard --from job.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if from != "" {
				loaded, err := config.Load(from)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			cat, err := (&jobFlags{catalogPath: catalogPath}).catalog()
			if err != nil {
				return err
			}
			return wizard.Run(cmd.Context(), cfg, cat)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start from a YAML or TOML job file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "preset catalog file (YAML or JSON)")
	return cmd
}
