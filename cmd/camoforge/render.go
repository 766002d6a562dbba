package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrsinham/camoforge/internal/export"
	"github.com/mrsinham/camoforge/internal/render"
)

func newRenderCmd() *cobra.Command {
	var jf *jobFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one pattern to an image file",
		Example: `  camoforge render -p mosaic --preset marpat-woodland -o camo.png
  camoforge render -p panels -b office.jpg --alpha 0.4 --vision deuteranopia -o check.png
  camoforge render -c job.yaml --seed 42 -o job.dcm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			opts, cfg, err := jf.resolve(ctx, cmd)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			res, err := render.Render(ctx, opts)
			if err != nil {
				return err
			}
			img := pickView(res, jf.view)
			if err := export.WriteFile(cfg.Output, img, jf.exportOptions(opts)); err != nil {
				return err
			}
			b := img.Bounds()
			prog.done(fmt.Sprintf("Rendered %s %dx%d to %s", opts.Style, b.Dx(), b.Dy(), cfg.Output))
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Output)

			return jf.save(ctx, cfg)
		},
	}
	jf = addJobFlags(cmd)
	return cmd
}
