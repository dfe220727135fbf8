package jobs

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Task processes the unit at index i.
type Task func(ctx context.Context, i int) error

// PoolConfig configures worker pool behaviour.
type PoolConfig struct {
	Workers int
	Logger  *zap.Logger
}

// Pool runs batches of indexed tasks on a bounded number of goroutines.
type Pool struct {
	name    string
	workers int
	logger  *zap.Logger
}

// NewPool builds a pool. Workers defaults to runtime.NumCPU().
func NewPool(name string, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool{name: name, workers: cfg.Workers, logger: cfg.Logger}
}

// Workers reports the concurrency limit.
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes task for every index in [0, n) and waits for all of them.
// The first failure cancels the context passed to the remaining tasks and
// is returned once every started task has finished; tasks not yet started
// are skipped. A panicking task is reported as an error.
func (p *Pool) Run(ctx context.Context, n int, task Task) error {
	if n <= 0 {
		return nil
	}
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s task %d panicked: %v", p.name, i, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			return task(gctx, i)
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		p.logger.Sugar().Warnw("pool run failed", "pool", p.name, "tasks", n, "error", err)
		return err
	}
	p.logger.Sugar().Debugw("pool run finished", "pool", p.name, "tasks", n, "workers", p.workers, "duration", time.Since(start))
	return nil
}
