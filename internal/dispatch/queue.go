// Package dispatch provides a serial job queue modelling a single-threaded
// execution context. Jobs submitted from any goroutine run one at a time,
// in submission order, on the queue's own goroutine.
package dispatch

import "sync"

type job struct {
	run  func()
	drop func()
}

// Queue is a serial executor. Submit is fire-and-forget: the job runs
// later on the queue goroutine, or, if the queue is closed first, its drop
// hook runs instead so the submitter can observe that the job was
// abandoned.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []job
	closed bool
}

// NewQueue creates a queue and starts its goroutine.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

// Submit schedules run for execution. drop may be nil; when non-nil it is
// called exactly once if the job is abandoned because the queue closed
// before the job ran. Submit never blocks on job execution.
func (q *Queue) Submit(run, drop func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		if drop != nil {
			drop()
		}
		return
	}
	q.jobs = append(q.jobs, job{run: run, drop: drop})
	q.cond.Signal()
	q.mu.Unlock()
}

// Close stops the queue. Jobs still pending are abandoned via their drop
// hooks; later Submit calls are abandoned immediately. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}

func (q *Queue) loop() {
	for {
		q.mu.Lock()
		for len(q.jobs) == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.closed {
			pending := q.jobs
			q.jobs = nil
			q.mu.Unlock()
			for _, j := range pending {
				if j.drop != nil {
					j.drop()
				}
			}
			return
		}
		j := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()
		j.run()
	}
}
