// Package pool provides the bounded worker pool behind the offloaded
// compilation mode, plus typed futures for retrieving results.
//
// A submitted task is one opaque unit of work. There is no cancellation:
// once accepted, a task runs to completion even if every waiter has given
// up. Future.Wait takes a context, but the context only stops the wait.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrPoolClosed is returned (wrapped) by futures whose task could not be
// accepted because the pool was already closed.
var ErrPoolClosed = errors.New("worker pool closed")

// Pool runs submitted tasks on a fixed set of worker goroutines.
//
// The task queue is unbounded so submission never blocks; admission
// control, if needed, belongs to the caller. The queue uses a mutex plus
// a coalescing signal channel so idle workers park cheaply.
type Pool struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	signal chan struct{} // buffered size 1, coalesces wakeups
	quit   chan struct{}
	wg     sync.WaitGroup
}

// New creates a pool with the given number of workers. Worker counts
// below 1 are raised to 1.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		signal: make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Close stops accepting new tasks, waits for queued and in-flight tasks
// to finish, then releases the workers. Safe to call once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.quit)
	p.wg.Wait()
}

// enqueue adds a task. Returns false when the pool is closed.
func (p *Pool) enqueue(task func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}
	p.tasks = append(p.tasks, task)

	select {
	case p.signal <- struct{}{}:
	default:
	}
	return true
}

// tryDequeue pops the front task without blocking.
func (p *Pool) tryDequeue() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tasks) == 0 {
		return nil, false
	}
	task := p.tasks[0]
	p.tasks = p.tasks[1:]
	return task, true
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		if task, ok := p.tryDequeue(); ok {
			task()
			continue
		}
		select {
		case <-p.signal:
		case <-p.quit:
			// Drain whatever was queued before Close.
			for {
				task, ok := p.tryDequeue()
				if !ok {
					return
				}
				task()
			}
		}
	}
}

// Future is the deferred result of one submitted task.
type Future[T any] struct {
	id   string
	done chan struct{}
	val  T
	err  error
}

// ID returns the task's job ID, assigned at submission.
func (f *Future[T]) ID() string { return f.id }

// Wait blocks until the task has finished and returns its result, or
// returns early with the context's error. Returning early does not stop
// the task; a later Wait still observes the eventual result.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit hands fn to the pool as one unit of work and returns its future.
// A panicking task resolves the future with a generic execution error
// rather than crashing the worker. Submitting to a closed pool resolves
// the future immediately with ErrPoolClosed.
func Submit[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := &Future[T]{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
	accepted := p.enqueue(func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("task %s: execution failure: %v", f.id, r)
			}
		}()
		f.val, f.err = fn()
	})
	if !accepted {
		f.err = fmt.Errorf("task %s: %w", f.id, ErrPoolClosed)
		close(f.done)
	}
	return f
}
