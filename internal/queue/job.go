package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Job is one document to process. The payload is either Text or SourceURL.
type Job struct {
	ID          uuid.UUID
	SubmitterID string
	Title       string
	Text        string
	SourceURL   string
	SubmittedAt time.Time
}

// NewTextJob creates a job carrying raw transcript text
func NewTextJob(submitterID, title, text string) (Job, error) {
	if strings.TrimSpace(text) == "" {
		return Job{}, fmt.Errorf("%w: text is empty", ErrInvalidJob)
	}
	return newJob(submitterID, title, text, "")
}

// NewSourceJob creates a job whose text is resolved from sourceURL by the worker
func NewSourceJob(submitterID, title, sourceURL string) (Job, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return Job{}, fmt.Errorf("%w: source url is empty", ErrInvalidJob)
	}
	return newJob(submitterID, title, "", strings.TrimSpace(sourceURL))
}

func newJob(submitterID, title, text, sourceURL string) (Job, error) {
	if strings.TrimSpace(submitterID) == "" {
		return Job{}, fmt.Errorf("%w: submitter id is required", ErrInvalidJob)
	}
	if title = strings.TrimSpace(title); title == "" {
		title = "text from file"
		if sourceURL != "" {
			title = sourceURL
		}
	}
	return Job{
		ID:          uuid.New(),
		SubmitterID: submitterID,
		Title:       title,
		Text:        text,
		SourceURL:   sourceURL,
		SubmittedAt: time.Now(),
	}, nil
}

// IsSource reports whether the job text must be resolved from a source reference
func (j Job) IsSource() bool {
	return j.SourceURL != ""
}
