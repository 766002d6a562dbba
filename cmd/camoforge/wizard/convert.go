package wizard

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mrsinham/camoforge/internal/composite"
	"github.com/mrsinham/camoforge/internal/export"
	"github.com/mrsinham/camoforge/internal/render"
)

// ToRenderOptions resolves the wizard state into render options and loads
// the background image. Unlike the CLI, invalid palette entries are an
// error here so the user can fix them before anything is written.
func ToRenderOptions(state *WizardState) (render.Options, error) {
	opts, rejected, err := state.Config.RenderOptions(state.Catalog)
	if err != nil {
		return render.Options{}, err
	}
	if len(rejected) > 0 {
		return render.Options{}, fmt.Errorf("invalid palette colors: %s", strings.Join(rejected, ", "))
	}
	if state.Config.Background != "" {
		bg, err := composite.LoadBackground(state.Config.Background, 0)
		if err != nil {
			return render.Options{}, err
		}
		opts.Background = bg
	}
	return opts, nil
}

// ProgressFunc is called after each file is written. It may be called
// from several goroutines.
type ProgressFunc func(current, total int, path string)

// Execute renders the job's variants and writes the composites. It
// returns the paths in seed order and their total size.
func Execute(ctx context.Context, state *WizardState, opts render.Options, progress ProgressFunc) ([]string, int64, error) {
	n := max(state.Variants, 1)
	seeds := render.SeedSequence(opts.Params.Seed, 1, n)
	paths := make([]string, n)
	for i := range paths {
		paths[i] = export.SequencePath(state.Config.Output, i, n)
	}

	var (
		done  atomic.Int32
		mu    sync.Mutex
		total int64
	)
	_, err := render.Batch(ctx, opts, seeds, render.BatchOptions{
		Sink: func(i int, r *render.Result) error {
			eo := export.Options{Description: render.Caption(opts.Style, seeds[i])}
			if err := export.WriteFile(paths[i], r.Composite, eo); err != nil {
				return err
			}
			if info, err := os.Stat(paths[i]); err == nil {
				mu.Lock()
				total += info.Size()
				mu.Unlock()
			}
			if progress != nil {
				progress(int(done.Add(1)), n, paths[i])
			}
			return nil
		},
	})
	if err != nil {
		return nil, 0, err
	}
	return paths, total, nil
}
