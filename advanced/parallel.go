package advanced

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Chunks are kept large enough that goroutine overhead stays small next to
// the per-point work, and numerous enough to balance uneven workers.
const (
	minChunk        = 64
	chunksPerWorker = 4
)

// forEachChunk splits [0, n) into contiguous ranges and calls fn on each from
// at most workers goroutines. Ranges are disjoint, so fn may write its own
// slice indices without locking. The context is checked between ranges.
func forEachChunk(ctx context.Context, n, workers int, fn func(lo, hi int) error) error {
	if workers < 1 {
		workers = 1
	}
	chunk := max(minChunk, (n+workers*chunksPerWorker-1)/(workers*chunksPerWorker))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		if gctx.Err() != nil {
			break
		}
		hi := min(lo+chunk, n)
		g.Go(func() (err error) {
			defer func() {
				if recovered := HandlePanicRecover(recover()); recovered != nil {
					err = recovered
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(lo, hi)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
