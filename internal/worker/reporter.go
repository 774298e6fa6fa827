package worker

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/transcript-flow/internal/queue"
)

// NopReporter discards every event
type NopReporter struct{}

func (NopReporter) Started(context.Context, queue.Job) error { return nil }

func (NopReporter) Completed(context.Context, Outcome) error { return nil }

func (NopReporter) Failed(context.Context, queue.Job, Failure) error { return nil }

// MultiReporter fans every event out to all reporters and joins their errors
type MultiReporter []Reporter

func (m MultiReporter) Started(ctx context.Context, job queue.Job) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Started(ctx, job))
	}
	return errors.Join(errs...)
}

func (m MultiReporter) Completed(ctx context.Context, out Outcome) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Completed(ctx, out))
	}
	return errors.Join(errs...)
}

func (m MultiReporter) Failed(ctx context.Context, job queue.Job, f Failure) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Failed(ctx, job, f))
	}
	return errors.Join(errs...)
}
