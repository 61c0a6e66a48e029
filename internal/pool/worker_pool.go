package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Task represents a unit of work that accepts a context.
type Task func(context.Context) error

// WorkerPool manages a pool of goroutines for concurrent task execution.
// Within one request it runs the independent file uploads of a multi-file
// submission in parallel.
type WorkerPool struct {
	maxWorkers  int
	queue       chan queuedTask
	workerWg    sync.WaitGroup
	quit        chan struct{}
	activeCount int32
	totalTasks  int64
	failedTasks int64
	avgExecTime int64 // nanoseconds
	started     bool
	mu          sync.RWMutex
}

type queuedTask struct {
	ctx  context.Context
	task Task
	done chan error
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	return &WorkerPool{
		maxWorkers: maxWorkers,
		queue:      make(chan queuedTask, maxWorkers*10),
		quit:       make(chan struct{}),
	}
}

// Start initializes and starts all workers.
func (p *WorkerPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("worker pool already started")
	}

	for i := 0; i < p.maxWorkers; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}

	p.started = true
	return nil
}

func (p *WorkerPool) worker() {
	defer p.workerWg.Done()

	for {
		select {
		case qt := <-p.queue:
			if qt.task == nil {
				continue
			}
			p.run(qt)

		case <-p.quit:
			return
		}
	}
}

func (p *WorkerPool) run(qt queuedTask) {
	start := time.Now()
	atomic.AddInt32(&p.activeCount, 1)
	atomic.AddInt64(&p.totalTasks, 1)

	err := qt.task(qt.ctx)
	if err != nil {
		atomic.AddInt64(&p.failedTasks, 1)
	}

	elapsed := time.Since(start).Nanoseconds()
	// Simple moving average.
	oldAvg := atomic.LoadInt64(&p.avgExecTime)
	atomic.StoreInt64(&p.avgExecTime, (oldAvg*9+elapsed)/10)

	atomic.AddInt32(&p.activeCount, -1)

	if qt.done != nil {
		select {
		case qt.done <- err:
		case <-qt.ctx.Done():
		}
	}
}

// Submit submits a task and returns a channel delivering its result.
func (p *WorkerPool) Submit(ctx context.Context, task Task) (<-chan error, error) {
	p.mu.RLock()
	if !p.started {
		p.mu.RUnlock()
		return nil, fmt.Errorf("worker pool not started")
	}
	p.mu.RUnlock()

	done := make(chan error, 1)
	qt := queuedTask{ctx: ctx, task: task, done: done}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case p.queue <- qt:
		return done, nil
	default:
		// Queue is full, execute in a dedicated goroutine as fallback.
		go p.run(qt)
		return done, nil
	}
}

// Stop gracefully shuts down the worker pool.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	close(p.quit)
	p.workerWg.Wait()
	p.started = false
}

// ActiveWorkers returns the number of currently active workers.
func (p *WorkerPool) ActiveWorkers() int32 {
	return atomic.LoadInt32(&p.activeCount)
}

// QueueSize returns the current number of queued tasks.
func (p *WorkerPool) QueueSize() int {
	return len(p.queue)
}

// WorkerPoolStats holds statistics about the worker pool.
type WorkerPoolStats struct {
	MaxWorkers    int     `json:"max_workers"`
	ActiveWorkers int32   `json:"active_workers"`
	QueueSize     int     `json:"queue_size"`
	TotalTasks    int64   `json:"total_tasks"`
	FailedTasks   int64   `json:"failed_tasks"`
	SuccessRate   float64 `json:"success_rate"`
	AvgExecTimeMs float64 `json:"avg_exec_time_ms"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() WorkerPoolStats {
	total := atomic.LoadInt64(&p.totalTasks)
	failed := atomic.LoadInt64(&p.failedTasks)
	avgNs := atomic.LoadInt64(&p.avgExecTime)

	successRate := float64(0)
	if total > 0 {
		successRate = float64(total-failed) / float64(total)
	}

	return WorkerPoolStats{
		MaxWorkers:    p.maxWorkers,
		ActiveWorkers: atomic.LoadInt32(&p.activeCount),
		QueueSize:     p.QueueSize(),
		TotalTasks:    total,
		FailedTasks:   failed,
		SuccessRate:   successRate,
		AvgExecTimeMs: float64(avgNs) / 1e6,
	}
}
