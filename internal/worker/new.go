package worker

import (
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
	"github.com/nguyentantai21042004/transcript-flow/internal/queue"
	"github.com/nguyentantai21042004/transcript-flow/internal/source"
)

// Deps are the stages a job goes through. Uploader and Artifacts are optional.
type Deps struct {
	Resolver  source.Resolver
	Processor processor.Processor
	Uploader  Uploader
	Artifacts ArtifactWriter
	Reporter  Reporter
}

// Options bound a single job; zero JobTimeout means no limit
type Options struct {
	JobTimeout time.Duration
}

type implWorker struct {
	queue  *queue.Queue
	deps   Deps
	opts   Options
	logger logger.Logger
}

// New creates a Worker consuming q
func New(q *queue.Queue, deps Deps, opts Options, log logger.Logger) Worker {
	if deps.Reporter == nil {
		deps.Reporter = NopReporter{}
	}
	return &implWorker{
		queue:  q,
		deps:   deps,
		opts:   opts,
		logger: log,
	}
}
