package worker

import (
	"context"

	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
	"github.com/nguyentantai21042004/transcript-flow/internal/queue"
	"github.com/nguyentantai21042004/transcript-flow/internal/store"
)

// Worker drains the job queue one job at a time
type Worker interface {
	Run(ctx context.Context) error
}

// Outcome is what a successful job produced
type Outcome struct {
	Job       queue.Job
	Result    processor.Result
	Links     []store.Link
	Truncated []string
	Files     []string
}

// Reporter receives job lifecycle events for the submitter
type Reporter interface {
	Started(ctx context.Context, job queue.Job) error
	Completed(ctx context.Context, out Outcome) error
	Failed(ctx context.Context, job queue.Job, f Failure) error
}

// Uploader persists the result variants of a job
type Uploader interface {
	Upload(ctx context.Context, title, link string, res processor.Result) (store.UploadResult, error)
}

// ArtifactWriter saves the result variants as local files
type ArtifactWriter interface {
	Write(ctx context.Context, title string, res processor.Result) ([]string, error)
}
