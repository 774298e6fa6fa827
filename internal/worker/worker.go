package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/queue"
)

// Run processes jobs until ctx is cancelled or the queue is closed and drained.
// A job already picked up is finished on a detached context before Run returns.
func (w *implWorker) Run(ctx context.Context) error {
	w.logger.Info(ctx, "Worker started")

	for {
		if ctx.Err() != nil {
			w.logger.Info(ctx, "Worker stopped")
			return nil
		}

		job, err := w.queue.Next(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, queue.ErrClosed) {
				w.logger.Info(ctx, "Worker stopped")
				return nil
			}
			return fmt.Errorf("next job: %w", err)
		}

		w.process(ctx, job)
	}
}

// process runs one job and always releases its submitter slot
func (w *implWorker) process(parent context.Context, job queue.Job) {
	defer w.queue.Done(job)

	ctx := logger.WithJobID(context.WithoutCancel(parent), job.ID.String())
	if w.opts.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.JobTimeout)
		defer cancel()
	}

	startTime := time.Now()
	w.logger.Info(ctx, "Processing job from %s: %q", job.SubmitterID, job.Title)
	w.notify(ctx, "started", func() error { return w.deps.Reporter.Started(ctx, job) })

	out, err := w.run(ctx, job)
	if err != nil {
		f := Classify(err)
		if f.Class == ClassUnclassified {
			w.logger.Error(ctx, "Job failed after %s: %v", time.Since(startTime), err)
		} else {
			w.logger.Warn(ctx, "Job failed after %s (%s): %v", time.Since(startTime), f.Class, err)
		}
		w.notify(ctx, "failed", func() error { return w.deps.Reporter.Failed(ctx, job, f) })
		return
	}

	w.logger.Info(ctx, "Job completed in %s (%d documents, %d files)", time.Since(startTime), len(out.Links), len(out.Files))
	w.notify(ctx, "completed", func() error { return w.deps.Reporter.Completed(ctx, out) })
}

func (w *implWorker) run(ctx context.Context, job queue.Job) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	text, err := w.deps.Resolver.Resolve(ctx, job)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve source: %w", err)
	}

	res, err := w.deps.Processor.Process(ctx, text)
	if err != nil {
		return Outcome{}, fmt.Errorf("process transcript: %w", err)
	}
	out = Outcome{Job: job, Result: res}

	if w.deps.Artifacts != nil {
		files, err := w.deps.Artifacts.Write(ctx, job.Title, res)
		if err != nil {
			return Outcome{}, fmt.Errorf("write artifacts: %w", err)
		}
		out.Files = files
	}

	if w.deps.Uploader != nil {
		up, err := w.deps.Uploader.Upload(ctx, job.Title, job.SourceURL, res)
		if err != nil {
			return Outcome{}, fmt.Errorf("upload documents: %w", err)
		}
		out.Links = up.Links
		out.Truncated = up.Truncated
	}

	return out, nil
}

// notify calls one reporter hook. Its error or panic is logged and never
// affects the job or the loop.
func (w *implWorker) notify(ctx context.Context, event string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error(ctx, "Reporter panicked on %s: %v", event, r)
		}
	}()
	if err := fn(); err != nil {
		w.logger.Warn(ctx, "Reporter failed on %s: %v", event, err)
	}
}
