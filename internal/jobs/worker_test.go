package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorker_EnqueueAsyncTracksFailures(t *testing.T) {
	w := NewWorker(1)

	done := make(chan struct{}, 3)
	w.EnqueueAsync(func(ctx context.Context) error {
		done <- struct{}{}
		return nil
	})
	w.EnqueueAsync(func(ctx context.Context) error {
		done <- struct{}{}
		return errors.New("boom")
	})
	w.EnqueueAsync(func(ctx context.Context) error {
		done <- struct{}{}
		panic("kaboom")
	})

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("async job did not run")
		}
	}
	w.Shutdown()

	stats := w.GetStats()
	assert.Equal(t, int64(3), stats.CompletedJobs)
	assert.Equal(t, int64(2), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
	assert.Equal(t, 10, stats.MaxConcurrent)
}

func TestWorker_EnqueueRunsOnPool(t *testing.T) {
	w := NewWorker(2)
	var ran atomic.Int32
	done := make(chan struct{})

	w.Enqueue(func(ctx context.Context) error {
		ran.Add(1)
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job did not run")
	}
	w.Shutdown()
	assert.Equal(t, int32(1), ran.Load())
}

func TestWorker_ScheduleEveryImmediateRunsAtStartup(t *testing.T) {
	w := NewWorker(1)
	first := make(chan struct{}, 1)

	w.ScheduleEveryImmediate(time.Hour, func(ctx context.Context) error {
		select {
		case first <- struct{}{}:
		default:
		}
		return nil
	})

	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled job did not run immediately")
	}
	w.Shutdown()
}

func TestWorker_DropsJobsAfterShutdown(t *testing.T) {
	w := NewWorker(1)
	w.Shutdown()

	var ran atomic.Bool
	w.EnqueueAsync(func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	w.Enqueue(func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	time.Sleep(20 * time.Millisecond)
	assert.False(t, ran.Load())
	assert.Error(t, w.ctx.Err())
}

func TestWorker_ShutdownWaitsForConcurrentEnqueue(t *testing.T) {
	w := NewWorker(2)

	var started, finished atomic.Int64
	job := func(ctx context.Context) error {
		started.Add(1)
		defer finished.Add(1)
		time.Sleep(time.Millisecond)
		return nil
	}

	var producers sync.WaitGroup
	for i := 0; i < 8; i++ {
		producers.Add(1)
		go func() {
			defer producers.Done()
			for j := 0; j < 50; j++ {
				w.EnqueueAsync(job)
			}
		}()
	}

	w.Shutdown()
	assert.Equal(t, started.Load(), finished.Load(), "every started job finished before Shutdown returned")

	producers.Wait()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, started.Load(), finished.Load())
	w.Shutdown()
}
