// Package scheduler batches reactive updates into flushes.
//
// Render effects queue their update job instead of re-rendering inside the
// write that triggered them; watchers queue callbacks before (pre) or after
// (post) the render jobs. The host drives the queue by calling Flush from
// its event loop, typically once after each event.
package scheduler

import (
	"log/slog"
	"slices"

	"github.com/vango-dev/reactor/internal/errors"
)

// DefaultRecursionLimit is the number of times a single job may run within
// one flush before the flush is aborted.
const DefaultRecursionLimit = 100

// Job is a unit of queued work. Jobs run in ascending ID order, so a parent
// component created before its children also updates before them.
type Job struct {
	ID           uint64
	Run          func()
	AllowRecurse bool
	// Name labels the job in diagnostics.
	Name string
}

// Queue is a deduplicating job queue. It is not safe for concurrent use; it
// belongs to the goroutine that owns the reactive store.
type Queue struct {
	jobs       []*Job
	flushIndex int
	flushing   bool
	running    bool

	pre  []func()
	post []func()

	limit  int
	logger *slog.Logger
}

// Option configures a Queue.
type Option func(*Queue)

// WithRecursionLimit overrides DefaultRecursionLimit.
func WithRecursionLimit(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.limit = n
		}
	}
}

// WithLogger sets the logger used to report aborted flushes.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		limit:  DefaultRecursionLimit,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// QueueJob adds job unless it is already waiting. While flushing, a job
// that allows recursion may be queued again while it is running.
func (q *Queue) QueueJob(job *Job) {
	start := q.flushIndex
	if q.running && job.AllowRecurse {
		start++
	}
	if start > len(q.jobs) {
		start = len(q.jobs)
	}
	for _, queued := range q.jobs[start:] {
		if queued == job {
			return
		}
	}
	// Keep waiting jobs ordered by ID; never insert before the running job.
	lower := q.flushIndex
	if q.running {
		lower++
	}
	pos := len(q.jobs)
	for pos > lower && q.jobs[pos-1].ID > job.ID {
		pos--
	}
	q.jobs = slices.Insert(q.jobs, pos, job)
}

// Invalidate removes a job that has not run yet in the current flush. It is
// used when a parent update already re-rendered a child.
func (q *Queue) Invalidate(job *Job) {
	for i := q.flushIndex; i < len(q.jobs); i++ {
		if q.jobs[i] == job {
			q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
			return
		}
	}
}

// QueuePreFlush adds a callback that runs before queued jobs.
func (q *Queue) QueuePreFlush(fn func()) {
	q.pre = append(q.pre, fn)
}

// QueuePostFlush adds a callback that runs after queued jobs.
func (q *Queue) QueuePostFlush(fn func()) {
	q.post = append(q.post, fn)
}

// Pending reports whether anything is waiting to run.
func (q *Queue) Pending() bool {
	return len(q.jobs) > q.flushIndex || len(q.pre) > 0 || len(q.post) > 0
}

// Flushing reports whether Flush is running.
func (q *Queue) Flushing() bool {
	return q.flushing
}

// Flush runs pre-flush callbacks, jobs in ID order and post-flush callbacks,
// repeating until nothing is left. If a job runs more often than the
// recursion limit the remaining work is dropped and an R010 error returned.
// Calling Flush while flushing is a no-op. A panic in a job propagates;
// jobs after it stay queued for the next Flush.
func (q *Queue) Flush() error {
	if q.flushing {
		return nil
	}
	q.flushing = true
	defer func() {
		// A panicking job unwinds through here. Jobs that already ran, and
		// the one that panicked, are dropped so the next Flush does not
		// repeat them.
		done := q.flushIndex
		if q.running {
			done++
		}
		if done > len(q.jobs) {
			done = len(q.jobs)
		}
		q.jobs = append(q.jobs[:0], q.jobs[done:]...)
		q.flushing = false
		q.running = false
		q.flushIndex = 0
	}()

	counts := make(map[any]int)
	for q.Pending() {
		if err := q.flushPre(counts); err != nil {
			return q.abort(err)
		}

		for q.flushIndex < len(q.jobs) {
			job := q.jobs[q.flushIndex]
			if err := q.count(counts, job, job.Name); err != nil {
				return q.abort(err)
			}
			if job.Run != nil {
				q.running = true
				job.Run()
				q.running = false
			}
			q.flushIndex++
		}
		q.jobs = q.jobs[:0]
		q.flushIndex = 0

		post := q.post
		q.post = nil
		for _, fn := range post {
			fn()
		}
	}
	return nil
}

func (q *Queue) flushPre(counts map[any]int) error {
	for len(q.pre) > 0 {
		pre := q.pre
		q.pre = nil
		for i, fn := range pre {
			if err := q.count(counts, i, "pre-flush"); err != nil {
				return err
			}
			fn()
		}
	}
	return nil
}

// count enforces the recursion limit. Pre-flush callbacks are counted per
// queue position since funcs are not comparable.
func (q *Queue) count(counts map[any]int, key any, name string) error {
	counts[key]++
	if counts[key] > q.limit {
		return errors.New("R010").
			WithField("job", name).
			WithField("limit", q.limit)
	}
	return nil
}

func (q *Queue) abort(err error) error {
	q.jobs = q.jobs[:0]
	q.pre = nil
	q.post = nil
	q.logger.Error("scheduler flush aborted", slog.Any("error", err))
	return err
}
