package queue

import "errors"

var (
	// ErrQueueFull rejects a submission when the queue is at capacity
	ErrQueueFull = errors.New("queue is full")
	// ErrDuplicateSubmitter rejects a submission while the submitter already has a job queued or running
	ErrDuplicateSubmitter = errors.New("submitter already has a job in queue")
	// ErrClosed is returned once the queue no longer accepts or hands out jobs
	ErrClosed = errors.New("queue is closed")
	// ErrInvalidJob is returned for a job without submitter or payload
	ErrInvalidJob = errors.New("invalid job")
)

// IsAdmissionRejected reports whether err is a submit-time rejection
func IsAdmissionRejected(err error) bool {
	return errors.Is(err, ErrQueueFull) || errors.Is(err, ErrDuplicateSubmitter) || errors.Is(err, ErrClosed)
}
