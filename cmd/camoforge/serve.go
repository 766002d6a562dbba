package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mrsinham/camoforge/internal/cache"
	"github.com/mrsinham/camoforge/internal/composite"
	"github.com/mrsinham/camoforge/internal/server"
	"github.com/mrsinham/camoforge/internal/util"
)

func newServeCmd() *cobra.Command {
	var (
		addr        string
		cacheLoc    string
		cacheTTL    time.Duration
		maxUpload   string
		catalogPath string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Long: `Serve renders over HTTP.

  GET  /render.png?pattern=mosaic&preset=desert&seed=4   render (cached)
  POST /composite.png  multipart form with a "background" file
  GET  /api/presets, /api/styles, /healthz

Any render flag name works as a query or form field (noise_seed, show_overlay).`,
		Example: `  camoforge serve --addr :8080
  camoforge serve --cache redis://localhost:6379/0 --cache-ttl 1h
  camoforge serve --cache ~/.cache/camoforge`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			maxBytes, err := util.ParseSize(maxUpload)
			if err != nil {
				return err
			}
			jf := jobFlags{catalogPath: catalogPath}
			cat, err := jf.catalog()
			if err != nil {
				return err
			}

			c, err := cache.Open(ctx, cacheLoc)
			if err != nil {
				return err
			}
			defer c.Close()
			if cacheLoc != "" {
				logger.Info("Render cache", "location", cacheLoc, "ttl", cacheTTL)
			}

			srv := server.New(server.Options{
				Cache:         c,
				Catalog:       cat,
				Logger:        logger,
				TTL:           cacheTTL,
				MaxUpload:     maxBytes,
				RenderTimeout: timeout,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheLoc, "cache", "", "render cache: a directory, file:///path or redis://host:port/db")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", server.DefaultTTL, "lifetime of cached renders")
	cmd.Flags().StringVar(&maxUpload, "max-upload", composite.DefaultMaxSize, "largest accepted background upload")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "preset catalog file (YAML or JSON)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "per-request render timeout")
	return cmd
}
