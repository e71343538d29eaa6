package sync

import (
	"context"
	stdsync "sync"

	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the number of remote operations allowed in flight
const DefaultConcurrency = 10

// Outcome is the state of a queued operation
type Outcome int

const (
	// OutcomePending means the operation has not settled yet
	OutcomePending Outcome = iota
	// OutcomeSucceeded means the operation completed, possibly after a retry
	OutcomeSucceeded
	// OutcomeFailed means the operation failed permanently
	OutcomeFailed
)

// String returns a human-readable representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Future settles once its task has run. It never carries an error: failure
// is reported through the Outcome.
type Future struct {
	done    chan struct{}
	outcome Outcome
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// settledFuture returns a future that has already settled with o
func settledFuture(o Outcome) *Future {
	f := newFuture()
	f.resolve(o)
	return f
}

func (f *Future) resolve(o Outcome) {
	f.outcome = o
	close(f.done)
}

// Done is closed when the future settles
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Outcome returns the settled outcome, or OutcomePending
func (f *Future) Outcome() Outcome {
	select {
	case <-f.done:
		return f.outcome
	default:
		return OutcomePending
	}
}

// Wait blocks until the future settles or ctx is done
func (f *Future) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-f.done:
		return f.outcome, nil
	case <-ctx.Done():
		return OutcomePending, ctx.Err()
	}
}

// Task is one unit of remote work
type Task func(ctx context.Context) Outcome

type job struct {
	task   Task
	future *Future
}

// Queue runs tasks with bounded concurrency. Tasks start in the order they
// were added; they may finish in any order.
type Queue struct {
	ctx      context.Context
	capacity int
	sem      *semaphore.Weighted

	mu      stdsync.Mutex
	pending []*job
	queued  int
	running int
	closed  bool
	idle    []chan struct{}

	wake     chan struct{}
	loopDone chan struct{}
}

// NewQueue creates a queue and starts its dispatcher. Tasks receive ctx
// stripped of cancellation: once added, a task always runs to completion.
func NewQueue(ctx context.Context, capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultConcurrency
	}

	q := &Queue{
		ctx:      context.WithoutCancel(ctx),
		capacity: capacity,
		sem:      semaphore.NewWeighted(int64(capacity)),
		wake:     make(chan struct{}, 1),
		loopDone: make(chan struct{}),
	}
	go q.dispatch()

	return q
}

// Add schedules a task and returns its future. Adding to a closed queue
// returns a future already settled as failed.
func (q *Queue) Add(task Task) *Future {
	j := &job{task: task, future: newFuture()}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return settledFuture(OutcomeFailed)
	}
	q.pending = append(q.pending, j)
	q.queued++
	q.mu.Unlock()

	q.signal()
	return j.future
}

// Capacity returns the maximum number of concurrently running tasks
func (q *Queue) Capacity() int {
	return q.capacity
}

// Running returns the number of tasks currently executing
func (q *Queue) Running() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Pending returns the number of tasks waiting for a slot
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.queued
}

// Wait blocks until every task added so far has finished, or ctx is done
func (q *Queue) Wait(ctx context.Context) error {
	q.mu.Lock()
	if q.queued+q.running == 0 {
		q.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	q.idle = append(q.idle, done)
	q.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for the ones already added
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()

	if err := q.Wait(ctx); err != nil {
		return err
	}

	select {
	case <-q.loopDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// dispatch admits pending jobs one at a time, in order, as slots free up
func (q *Queue) dispatch() {
	defer close(q.loopDone)

	for {
		j, ok := q.next()
		if !ok {
			return
		}

		// Acquire cannot fail: q.ctx is never cancelled
		_ = q.sem.Acquire(q.ctx, 1)

		q.mu.Lock()
		q.queued--
		q.running++
		q.mu.Unlock()

		// The next job is admitted only once this one has begun
		started := make(chan struct{})
		go q.execute(j, started)
		<-started
	}
}

// next pops the oldest pending job, blocking until one exists. It returns
// false once the queue is closed and drained.
func (q *Queue) next() (*job, bool) {
	for {
		q.mu.Lock()
		if len(q.pending) > 0 {
			j := q.pending[0]
			q.pending[0] = nil
			q.pending = q.pending[1:]
			q.mu.Unlock()
			return j, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return nil, false
		}
		<-q.wake
	}
}

func (q *Queue) execute(j *job, started chan<- struct{}) {
	close(started)
	j.future.resolve(j.task(q.ctx))

	q.mu.Lock()
	q.running--
	if q.queued+q.running == 0 {
		for _, ch := range q.idle {
			close(ch)
		}
		q.idle = nil
	}
	q.mu.Unlock()

	q.sem.Release(1)
}
