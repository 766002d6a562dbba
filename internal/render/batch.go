package render

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// ProgressCallback is called after each render completes.
type ProgressCallback func(completed, total int)

// BatchOptions tunes a batch run.
type BatchOptions struct {
	// Workers is the number of parallel renders; zero uses all CPUs.
	Workers int
	// Progress, if set, is called from the collecting goroutine.
	Progress ProgressCallback
	// Sink, if set, receives every result from the worker that rendered it
	// and the result is not retained. It must be safe for concurrent use.
	Sink func(index int, r *Result) error
}

type batchTask struct {
	index int
	opts  Options
}

type batchResult struct {
	index  int
	result *Result
	err    error
}

// Batch renders o once per seed in parallel. Results are returned in seed
// order (nil entries when a Sink consumed them). The first error wins; the
// remaining tasks are skipped once it occurs or ctx is cancelled.
func Batch(ctx context.Context, o Options, seeds []float64, bo BatchOptions) ([]*Result, error) {
	if len(seeds) == 0 {
		return nil, nil
	}

	numWorkers := bo.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	// Don't use more workers than tasks
	if numWorkers > len(seeds) {
		numWorkers = len(seeds)
	}

	// The classic field is resolved once so every task shares its table.
	f, err := o.NoiseField()
	if err != nil {
		return nil, fmt.Errorf("noise: %w", err)
	}
	o.Field = f

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	taskChan := make(chan batchTask, len(seeds))
	resultChan := make(chan batchResult, len(seeds))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChan {
				res, err := Render(ctx, task.opts)
				if err == nil && bo.Sink != nil {
					err = bo.Sink(task.index, res)
					res = nil
				}
				resultChan <- batchResult{index: task.index, result: res, err: err}
			}
		}()
	}

	for i, seed := range seeds {
		task := batchTask{index: i, opts: o}
		task.opts.Params.Seed = seed
		taskChan <- task
	}
	close(taskChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]*Result, len(seeds))
	completed := 0
	var firstErr error
	for r := range resultChan {
		if r.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("render %d: %w", r.index, r.err)
			cancel()
		}
		results[r.index] = r.result
		completed++
		if bo.Progress != nil {
			bo.Progress(completed, len(seeds))
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// SeedSequence returns n seeds starting at start and spaced by step.
func SeedSequence(start, step float64, n int) []float64 {
	seeds := make([]float64, n)
	for i := range seeds {
		seeds[i] = start + float64(i)*step
	}
	return seeds
}
