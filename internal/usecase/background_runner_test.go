package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestBackgroundRunnerBoundsConcurrency(t *testing.T) {
	runner := NewBackgroundRunner(2, testLogger)

	var running, peak int32
	release := make(chan struct{})
	for i := 0; i < 6; i++ {
		runner.Submit("task", func(ctx context.Context) {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&running, -1)
		})
	}

	time.Sleep(50 * time.Millisecond)
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := runner.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if peak > 2 {
		t.Fatalf("peak concurrency %d exceeds 2", peak)
	}
}

func TestBackgroundRunnerSubmitDoesNotBlock(t *testing.T) {
	runner := NewBackgroundRunner(1, testLogger)
	block := make(chan struct{})
	runner.Submit("slow", func(ctx context.Context) { <-block })

	done := make(chan struct{})
	go func() {
		runner.Submit("queued", func(ctx context.Context) {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("submit blocked while the pool was full")
	}
	close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := runner.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestBackgroundRunnerRecoversPanics(t *testing.T) {
	runner := NewBackgroundRunner(1, testLogger)
	var ran int32
	runner.Submit("panics", func(ctx context.Context) { panic("boom") })
	runner.Submit("after", func(ctx context.Context) { atomic.StoreInt32(&ran, 1) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := runner.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Fatalf("task after a panic did not run")
	}
}

func TestBackgroundRunnerDetachedContext(t *testing.T) {
	runner := NewBackgroundRunner(1, testLogger)

	var ctxErr atomic.Value
	runner.Submit("detached", func(ctx context.Context) {
		if err := ctx.Err(); err != nil {
			ctxErr.Store(err)
		}
	})

	wctx, wcancel := context.WithTimeout(context.Background(), time.Second)
	defer wcancel()
	if err := runner.Wait(wctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if ctxErr.Load() != nil {
		t.Fatalf("task context must not inherit request cancellation")
	}
}
