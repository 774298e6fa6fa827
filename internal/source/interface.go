package source

import (
	"context"

	"github.com/nguyentantai21042004/transcript-flow/internal/queue"
)

// Resolver turns a job payload into transcript text
type Resolver interface {
	Resolve(ctx context.Context, job queue.Job) (string, error)
}
