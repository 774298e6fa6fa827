package processor

import "errors"

var (
	// ErrEmptyResult is returned when any stage produces empty output
	ErrEmptyResult = errors.New("empty result")
	// ErrInvalidChunkSize is returned by Split for a non-positive chunk length
	ErrInvalidChunkSize = errors.New("chunk size must be > 0")
)
