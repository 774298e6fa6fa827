package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/queue"
)

// Resolve returns text payloads as is and fetches source references with the configured command
func (r *implResolver) Resolve(ctx context.Context, job queue.Job) (string, error) {
	if !job.IsSource() {
		return job.Text, nil
	}
	if r.cfg.Command == "" {
		return "", fmt.Errorf("%w: no source command configured for %s", ErrUnsupportedSource, job.SourceURL)
	}

	args := make([]string, 0, len(r.cfg.Args)+1)
	substituted := false
	for _, a := range r.cfg.Args {
		if a == urlPlaceholder {
			a = job.SourceURL
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, job.SourceURL)
	}

	r.logger.Info(ctx, "Fetching transcript for %s", job.SourceURL)
	out, err := r.executor.Execute(ctx, r.cfg.Command, args...)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", job.SourceURL, err)
	}

	text := strings.TrimSpace(out)
	if text == "" {
		return "", fmt.Errorf("%w: no transcript for %s", ErrUnsupportedSource, job.SourceURL)
	}
	r.logger.Debug(ctx, "Fetched %d chars for %s", len(text), job.SourceURL)
	return text, nil
}
