package workers

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// ErrorSink receives the failure of every spawned task.
type ErrorSink func(task string, err error)

// Runner spawns detached background tasks. Tasks run on a context that is
// independent from the request that started them, so a disconnecting
// client never cancels a started run.
type Runner struct {
	MaxConcurrent int64
	Logger        *logrus.Logger
	Sink          ErrorSink

	once sync.Once
	sem  *semaphore.Weighted
	wg   sync.WaitGroup
	base context.Context
}

func (r *Runner) init() {
	r.once.Do(func() {
		if r.MaxConcurrent <= 0 {
			r.MaxConcurrent = 8
		}
		if r.Logger == nil {
			r.Logger = logrus.New()
		}
		r.sem = semaphore.NewWeighted(r.MaxConcurrent)
		r.base = context.Background()
	})
}

// Go starts fn and returns immediately. When MaxConcurrent tasks are
// already running the task waits for a slot inside its own goroutine.
func (r *Runner) Go(task string, fn func(ctx context.Context) error) {
	r.init()
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		ctx := r.base
		if err := r.sem.Acquire(ctx, 1); err != nil {
			r.report(task, err)
			return
		}
		defer r.sem.Release(1)

		r.report(task, r.safeRun(ctx, task, fn))
	}()
}

func (r *Runner) safeRun(ctx context.Context, task string, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.Logger.WithFields(logrus.Fields{
				"task":  task,
				"panic": p,
				"stack": string(debug.Stack()),
			}).Error("background task panicked")
			err = fmt.Errorf("task %s panicked: %v", task, p)
		}
	}()
	return fn(ctx)
}

func (r *Runner) report(task string, err error) {
	if err == nil {
		return
	}
	r.Logger.WithField("task", task).WithError(err).Warn("background task failed")
	if r.Sink != nil {
		r.Sink(task, err)
	}
}

// Wait blocks until every spawned task has finished or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	r.init()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
