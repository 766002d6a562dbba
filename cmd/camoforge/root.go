package main

import (
	"fmt"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
	"github.com/gogpu/gg"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose, quiet bool

	root := &cobra.Command{
		Use:   "camoforge",
		Short: "camoforge renders procedural camouflage patterns",
		Long: `camoforge generates tileable camouflage and background patterns from
gradient noise, composites them over photographs and previews them under
simulated color-vision deficiencies.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			switch {
			case verbose:
				level = charmlog.DebugLevel
			case quiet:
				level = charmlog.WarnLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			gg.SetLogger(slog.New(logger))
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(versionString())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newPresetsCmd())
	root.AddCommand(newWizardCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func versionString() string {
	return fmt.Sprintf("camoforge %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionString())
		},
	}
}
