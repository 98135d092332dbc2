// Package par holds the fan-out helpers shared by the table build and the
// guess ranking.
package par

import (
	"context"
	"runtime"

	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"
)

// Workers returns n, or GOMAXPROCS when n is not positive.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// ForEach calls fn(i) for every i in [0, n) on at most workers goroutines.
// It stops scheduling once fn fails or ctx is done and returns the first error.
func ForEach(ctx context.Context, n, workers int, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers))

	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// ArgMax returns the index of the element with the largest key, the earliest
// one on ties, or -1 for an empty slice.
func ArgMax[T any, K constraints.Ordered](slice []T, keyFunc func(T) K) int {
	if len(slice) == 0 {
		return -1
	}

	best := 0
	bestKey := keyFunc(slice[0])
	for i := 1; i < len(slice); i++ {
		if k := keyFunc(slice[i]); k > bestKey {
			best, bestKey = i, k
		}
	}
	return best
}
