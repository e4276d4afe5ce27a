package spin

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrQueueClosed = errors.New("update queue closed")

type Job func()

// UpdateQueue runs jobs one at a time, in the order they were posted, on a
// single goroutine. Posting never waits for the consumer.
type UpdateQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []Job
	closed bool
	done   chan struct{}

	logger *zap.Logger
}

func NewUpdateQueue(logger *zap.Logger) *UpdateQueue {
	if logger == nil {
		logger = zap.NewNop()
	}

	q := &UpdateQueue{
		jobs:   make([]Job, 0, 64),
		done:   make(chan struct{}),
		logger: logger,
	}
	q.cond = sync.NewCond(&q.mu)

	go q.run()

	return q
}

// Async appends job to the queue
func (q *UpdateQueue) Async(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.jobs = append(q.jobs, job)
	q.cond.Signal()

	return nil
}

// Sync appends job to the queue and waits until it ran.
// It must not be called from a job.
func (q *UpdateQueue) Sync(job Job) error {
	done := make(chan struct{})
	err := q.Async(func() {
		defer close(done)
		job()
	})
	if err != nil {
		return err
	}

	<-done
	return nil
}

// Close stops accepting jobs, runs the pending ones and waits for the
// consumer to exit.
func (q *UpdateQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()

	<-q.done
}

func (q *UpdateQueue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.jobs) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.jobs) == 0 {
			q.mu.Unlock()
			return
		}
		job := q.jobs[0]
		q.jobs[0] = nil
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		q.execute(job)
	}
}

func (q *UpdateQueue) execute(job Job) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("update job panicked", zap.Any("recovered", r))
		}
	}()

	job()
}
