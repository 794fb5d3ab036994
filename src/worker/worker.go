// Package worker runs the scheduling loop that drains the job queue and
// drives the processing pipeline.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"rimborso/src/infrastructure/job"
	"rimborso/src/log"
	"rimborso/src/pipeline"
)

const (
	DefaultIdleInterval    = time.Second
	DefaultBackoffInterval = 5 * time.Second
)

// Runner executes the processing pipeline for one job input.
type Runner interface {
	Run(ctx context.Context, input job.Input) (*pipeline.Result, error)
}

// Worker is one scheduling loop instance. Any number of workers may run
// concurrently against the same store; the store's atomic dequeue is the
// only serialization point between them.
type Worker struct {
	store   job.Store
	runner  Runner
	idle    time.Duration
	backoff time.Duration
	wake    <-chan *message.Message
}

type Option func(w *Worker)

// WithIdleInterval sets the wait between polls of an empty queue.
func WithIdleInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.idle = d
		}
	}
}

// WithBackoffInterval sets the longer wait after a store or queue failure.
func WithBackoffInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.backoff = d
		}
	}
}

// WithWakeChannel subscribes the worker to submission notices so it polls
// immediately instead of waiting out the idle interval.
func WithWakeChannel(ch <-chan *message.Message) Option {
	return func(w *Worker) {
		w.wake = ch
	}
}

func New(store job.Store, runner Runner, opts ...Option) *Worker {
	w := &Worker{
		store:   store,
		runner:  runner,
		idle:    DefaultIdleInterval,
		backoff: DefaultBackoffInterval,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run loops until ctx is cancelled. Store failures are logged and backed
// off, never fatal; pipeline failures are recorded on the job.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		worked, err := w.RunOnce(ctx)
		if err != nil {
			log.Error(err, "worker iteration failed")
			w.wait(ctx, w.backoff)
			continue
		}
		if worked {
			continue
		}

		w.wait(ctx, w.idle)
	}
}

// RunOnce dequeues and processes at most one job. It reports whether a job
// was processed, regardless of that job's outcome; the returned error covers
// store and queue access only.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	id, ok, err := w.store.Dequeue(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	j, err := w.store.Get(ctx, id)
	if err != nil {
		return false, err
	}

	j.Status = job.StatusProcessing
	if err := w.store.Save(ctx, j); err != nil {
		return false, err
	}

	w.process(ctx, j)

	if err := w.store.Save(ctx, j); err != nil {
		return true, err
	}

	log.Info("job finished", "job_id", j.ID, "status", j.Status)
	return true, nil
}

// process runs the pipeline and sets the terminal state on the job record.
// Every pipeline error ends up on the record; none propagates.
func (w *Worker) process(ctx context.Context, j *job.Job) {
	now := func() *time.Time {
		t := time.Now().UTC()
		return &t
	}

	input, err := j.Input()
	if err != nil {
		msg := err.Error()
		j.Status = job.StatusFailed
		j.Error = &msg
		j.FailedAt = now()
		return
	}

	result, err := w.runner.Run(ctx, input)
	if err != nil {
		msg := err.Error()
		j.Status = job.StatusFailed
		j.Error = &msg
		j.FailedAt = now()
		return
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		msg := err.Error()
		j.Status = job.StatusFailed
		j.Error = &msg
		j.FailedAt = now()
		return
	}

	j.Status = job.StatusCompleted
	j.Result = encoded
	j.CompletedAt = now()
}

// wait blocks for the given duration, a wake message, or cancellation,
// whichever comes first. A nil wake channel blocks forever and leaves the
// timer as the only trigger.
func (w *Worker) wait(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	case msg, ok := <-w.wake:
		if ok && msg != nil {
			msg.Ack()
		}
	}
}
