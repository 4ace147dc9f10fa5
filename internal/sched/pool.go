package sched

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs chunks concurrently on at most Workers goroutines.
type Pool struct {
	workers int
}

// NewPool returns a pool of the given size, or one worker per CPU when
// workers is not positive.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

func (p *Pool) Workers() int { return p.workers }

// Run calls fn once per chunk and waits for all of them. Chunks are not
// started once ctx is done or a previous chunk failed; a chunk that has
// started always runs to completion. The first error is returned.
func (p *Pool) Run(ctx context.Context, chunks []Chunk, fn func(Chunk) error) error {
	if len(chunks) == 0 {
		return ctx.Err()
	}
	if p.workers == 1 || len(chunks) == 1 {
		for _, c := range chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, c := range chunks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(c)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
