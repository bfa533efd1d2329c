package energy

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFor runs fn over [0, n) in contiguous chunks on up to workers
// goroutines. The first error cancels chunks that have not started yet and
// is returned as-is.
func ParallelFor(ctx context.Context, n, minChunk, workers int, fn func(start, end int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(0, n)
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}
	chunkSize := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(start, end)
		})
	}
	return g.Wait()
}
