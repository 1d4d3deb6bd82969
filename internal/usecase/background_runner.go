package usecase

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"jetlag-advisor/pkg/logger"
)

// TaskLauncher submits detached work. Submit must not block the caller.
type TaskLauncher interface {
	Submit(name string, task func(ctx context.Context))
}

// BackgroundRunner runs fire-and-forget tasks with bounded concurrency. Tasks run on a context
// detached from the submitter and are never cancelled once started.
type BackgroundRunner struct {
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	ctx    context.Context
	logger logger.Logger
}

// NewBackgroundRunner creates a runner that executes at most workers tasks at a time.
func NewBackgroundRunner(workers int, logger logger.Logger) *BackgroundRunner {
	if workers <= 0 {
		workers = 1
	}
	return &BackgroundRunner{
		sem:    semaphore.NewWeighted(int64(workers)),
		ctx:    context.Background(),
		logger: logger,
	}
}

// Submit queues task and returns immediately.
func (r *BackgroundRunner) Submit(name string, task func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.sem.Acquire(r.ctx, 1); err != nil {
			r.logger.Error("Failed to acquire worker slot", "task", name, "error", err)
			return
		}
		defer r.sem.Release(1)
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("Background task panicked", "task", name, "panic", rec)
			}
		}()

		r.logger.Debug("Background task started", "task", name)
		task(r.ctx)
		r.logger.Debug("Background task finished", "task", name)
	}()
}

// Wait blocks until every submitted task has finished or ctx is done.
func (r *BackgroundRunner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
