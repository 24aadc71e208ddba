package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nibzard/capplan-go/internal/planner"
)

// Result is the outcome of one job.
type Result struct {
	Key      string
	Project  *planner.Project
	Error    error
	Duration time.Duration
}

// WorkerPool runs jobs with bounded concurrency.
type WorkerPool struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	results    []*Result // indexed by submission order; nil if never run
	errors     []error
	failFast   bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a new worker pool with bounded concurrency.
// If maxWorkers is 0, unlimited workers are allowed.
// If failFast is true, the context is cancelled on the first error.
func NewWorkerPool(ctx context.Context, maxWorkers int, failFast bool) *WorkerPool {
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		failFast:   failFast,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Context returns the pool context. Jobs should watch it for cancellation.
func (p *WorkerPool) Context() context.Context {
	return p.ctx
}

// Submit schedules fn. If the pool is at capacity the job waits for a free
// slot or for cancellation. Jobs submitted after cancellation never run.
func (p *WorkerPool) Submit(key string, fn func(ctx context.Context) (*planner.Project, error)) {
	p.mu.Lock()
	slot := len(p.results)
	p.results = append(p.results, nil)
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return
	default:
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.maxWorkers > 0 {
			select {
			case p.semaphore <- struct{}{}:
				defer func() { <-p.semaphore }()
			case <-p.ctx.Done():
				return
			}
		}

		select {
		case <-p.ctx.Done():
			return
		default:
		}

		start := time.Now()
		project, err := fn(p.ctx)
		result := &Result{
			Key:      key,
			Project:  project,
			Error:    err,
			Duration: time.Since(start),
		}

		p.mu.Lock()
		defer p.mu.Unlock()

		p.results[slot] = result
		if err != nil {
			p.errors = append(p.errors, fmt.Errorf("%s: %w", key, err))
			if p.failFast {
				p.cancel()
			}
		}
	}()
}

// Wait waits for all submitted jobs and returns the results of those that
// ran, in submission order, and the errors in completion order.
func (p *WorkerPool) Wait() ([]Result, []error) {
	p.wg.Wait()
	p.cancel()
	return p.snapshot()
}

// Results returns a snapshot of finished results in submission order.
func (p *WorkerPool) Results() []Result {
	results, _ := p.snapshot()
	return results
}

// Errors returns a snapshot of current errors.
func (p *WorkerPool) Errors() []error {
	_, errs := p.snapshot()
	return errs
}

func (p *WorkerPool) snapshot() ([]Result, []error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]Result, 0, len(p.results))
	for _, r := range p.results {
		if r != nil {
			results = append(results, *r)
		}
	}
	errs := make([]error, len(p.errors))
	copy(errs, p.errors)
	return results, errs
}

// Cancel cancels all pending work in the pool.
func (p *WorkerPool) Cancel() {
	p.cancel()
}
