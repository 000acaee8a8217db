// Package parallel runs batches of compilation jobs on a fixed set of
// goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrClosed is returned by ExecuteAll when the pool shuts down before every
// job was queued.
var ErrClosed = errors.New("parallel: pool closed")

// Job is one unit of work. A job should return promptly once ctx is done.
type Job func(ctx context.Context) error

// WorkerPool runs jobs on a fixed number of workers fed from one FIFO
// queue. With a single worker, jobs run in the order they were queued.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queue   chan func()
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts a pool with the given number of workers, or
// GOMAXPROCS when workers <= 0.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), max(workers*4, 8)),
	}
	p.wg.Add(workers)
	for range workers {
		go func() {
			defer p.wg.Done()
			for work := range p.queue {
				work()
			}
		}()
	}
	return p
}

// ExecuteAll runs jobs across the workers and waits for all of them.
//
// The first failing job cancels the context handed to the rest; jobs not yet
// started are skipped. ExecuteAll returns that first error, ctx's error if
// ctx ended first, or ErrClosed if the pool was closed.
func (p *WorkerPool) ExecuteAll(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var pending sync.WaitGroup
	pending.Add(len(jobs))
	queued := 0
	for _, job := range jobs {
		if !p.submit(func() {
			defer pending.Done()
			if ctx.Err() != nil {
				return
			}
			if err := job(ctx); err != nil {
				cancel(err)
			}
		}) {
			break
		}
		queued++
	}
	pending.Add(queued - len(jobs))
	pending.Wait()

	if err := context.Cause(ctx); err != nil {
		return err
	}
	if queued < len(jobs) {
		return ErrClosed
	}
	return nil
}

// submit queues work unless the pool is closed.
func (p *WorkerPool) submit(work func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.queue <- work
	return true
}

// Close stops accepting work, lets queued work finish and stops the
// workers. Close is safe to call more than once.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}

// QueuedWork returns the number of jobs waiting for a worker.
func (p *WorkerPool) QueuedWork() int {
	return len(p.queue)
}
