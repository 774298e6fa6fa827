package queue

import (
	"context"
	"sync"
)

const DefaultCapacity = 20

// Stats is a point-in-time view of the queue
type Stats struct {
	Queued   int `json:"queued"`
	InFlight int `json:"in_flight"`
	Capacity int `json:"capacity"`
}

// Queue is a bounded FIFO of jobs with at most one queued or running job per submitter
type Queue struct {
	mu       sync.Mutex
	jobs     chan Job
	pending  map[string]struct{}
	inFlight int
	closed   bool
}

// New creates a Queue holding at most capacity waiting jobs
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		jobs:    make(chan Job, capacity),
		pending: make(map[string]struct{}),
	}
}

// Submit admits job without blocking and returns how many jobs are queued ahead of it
func (q *Queue) Submit(job Job) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0, ErrClosed
	}
	if _, ok := q.pending[job.SubmitterID]; ok {
		return 0, ErrDuplicateSubmitter
	}

	position := len(q.jobs)
	select {
	case q.jobs <- job:
	default:
		return 0, ErrQueueFull
	}
	q.pending[job.SubmitterID] = struct{}{}
	return position, nil
}

// Next blocks until a job is available. It returns ctx.Err() on cancellation
// and ErrClosed once the queue is closed and drained.
func (q *Queue) Next(ctx context.Context) (Job, error) {
	select {
	case <-ctx.Done():
		return Job{}, ctx.Err()
	case job, ok := <-q.jobs:
		if !ok {
			return Job{}, ErrClosed
		}
		q.mu.Lock()
		q.inFlight++
		q.mu.Unlock()
		return job, nil
	}
}

// Done releases the submitter slot of a job returned by Next
func (q *Queue) Done(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.pending, job.SubmitterID)
	if q.inFlight > 0 {
		q.inFlight--
	}
}

// Stats returns the current queue occupancy
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return Stats{
		Queued:   len(q.jobs),
		InFlight: q.inFlight,
		Capacity: cap(q.jobs),
	}
}

// Close stops admission. Jobs already queued are still handed out by Next.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}
