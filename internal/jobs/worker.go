// Package jobs runs post-commit side effects and periodic refreshes off the
// request path.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/faturaflow/faturaflow-api/pkg/logger"
	"github.com/getsentry/sentry-go"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker manages background jobs and scheduled tasks
type Worker struct {
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	queue         chan Job
	asyncSem      chan struct{}
	maxConcurrent int
	stats         WorkerStats
	statsMu       sync.RWMutex

	// mu orders wg.Add against Shutdown's wg.Wait
	mu     sync.Mutex
	closed bool
}

// WorkerStats holds statistics about the worker.
// CompletedJobs counts every finished job; FailedJobs is the failing subset.
type WorkerStats struct {
	ActiveJobs    int   `json:"active_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	QueueLength   int   `json:"queue_length"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// NewWorker creates a worker with N concurrent processors
func NewWorker(numWorkers int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	asyncLimit := numWorkers * 2
	if asyncLimit < 10 {
		asyncLimit = 10
	}

	w := &Worker{
		ctx:           ctx,
		cancel:        cancel,
		queue:         make(chan Job, 100),
		asyncSem:      make(chan struct{}, asyncLimit),
		maxConcurrent: asyncLimit,
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	return w
}

// acquire registers one goroutine with the wait group unless the worker is
// shut down
func (w *Worker) acquire() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.wg.Add(1)
	return true
}

// Enqueue adds a job to be processed by the worker pool
func (w *Worker) Enqueue(job Job) {
	if w.isClosed() {
		logger.Warn("worker: dropping job after shutdown")
		return
	}
	select {
	case w.queue <- job:
	default:
		logger.Warn("worker: queue full, running job synchronously")
		w.run("queue-overflow", job)
	}
}

// EnqueueAsync runs a job in its own goroutine, bounded by a semaphore
func (w *Worker) EnqueueAsync(job Job) {
	if !w.acquire() {
		logger.Warn("worker: dropping async job after shutdown")
		return
	}
	go func() {
		defer w.wg.Done()

		select {
		case w.asyncSem <- struct{}{}:
		case <-w.ctx.Done():
			return
		}
		defer func() { <-w.asyncSem }()

		w.run("async", job)
	}()
}

func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			w.run("pool", job, "worker_id", workerID)
		}
	}
}

// ScheduleEveryImmediate runs a job once at startup, then at fixed intervals.
func (w *Worker) ScheduleEveryImmediate(interval time.Duration, job Job) {
	if !w.acquire() {
		logger.Warn("worker: not scheduling job after shutdown")
		return
	}
	go func() {
		defer w.wg.Done()
		w.run("scheduled", job)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run("scheduled", job)
			}
		}
	}()
}

// run executes job with panic recovery and bookkeeping
func (w *Worker) run(kind string, job Job, attrs ...any) {
	w.trackJobStart()
	defer w.trackJobEnd()

	log := logger.With(append([]any{"kind", kind}, attrs...)...)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("worker: job panic", "panic", r)
			sentry.CurrentHub().Recover(r)
			w.trackJobFailure()
		}
	}()

	if err := job(w.ctx); err != nil {
		log.Error("worker: job failed", "error", err, "duration", time.Since(start))
		w.trackJobFailure()
		return
	}
	log.Debug("worker: job completed", "duration", time.Since(start))
}

// Shutdown cancels scheduled jobs and waits for running ones to return
func (w *Worker) Shutdown() {
	w.mu.Lock()
	w.closed = true
	w.cancel()
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Worker) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	stats.MaxConcurrent = w.maxConcurrent
	return stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) trackJobEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
}

func (w *Worker) trackJobFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
