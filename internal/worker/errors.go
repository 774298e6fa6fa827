package worker

import (
	"errors"

	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
	"github.com/nguyentantai21042004/transcript-flow/internal/prompts"
	"github.com/nguyentantai21042004/transcript-flow/internal/source"
	"github.com/nguyentantai21042004/transcript-flow/internal/transform"
)

// ErrPanic wraps a panic recovered while running a job
var ErrPanic = errors.New("job panicked")

// Class groups job failures by what the submitter should do about them
type Class string

const (
	ClassQuotaExceeded     Class = "quota_exceeded"
	ClassRateLimited       Class = "rate_limited"
	ClassEmptyResult       Class = "empty_result"
	ClassUnsupportedSource Class = "unsupported_source"
	ClassConfiguration     Class = "configuration"
	ClassUnclassified      Class = "unclassified"
)

// Failure is the user-facing form of a job error
type Failure struct {
	Class   Class  `json:"class"`
	Message string `json:"message"`
}

const (
	msgRateLimited       = "The language service is rate limiting requests right now. Please try again later."
	msgEmptyResult       = "The language service returned an empty result for this transcript."
	msgUnsupportedSource = "This source is not supported. Send the transcript as text instead."
	msgConfiguration     = "The service is misconfigured. The operator has to check the logs."
	msgUnclassified      = "Something went wrong. The operator has to check the logs."
)

// Classify maps a job error to its Failure. Quota messages are passed through verbatim.
func Classify(err error) Failure {
	var quota *transform.QuotaError
	switch {
	case errors.As(err, &quota):
		return Failure{Class: ClassQuotaExceeded, Message: quota.Message}
	case errors.Is(err, transform.ErrQuotaExceeded):
		return Failure{Class: ClassQuotaExceeded, Message: err.Error()}
	case errors.Is(err, transform.ErrRateLimited):
		return Failure{Class: ClassRateLimited, Message: msgRateLimited}
	case errors.Is(err, processor.ErrEmptyResult):
		return Failure{Class: ClassEmptyResult, Message: msgEmptyResult}
	case errors.Is(err, source.ErrUnsupportedSource):
		return Failure{Class: ClassUnsupportedSource, Message: msgUnsupportedSource}
	case errors.Is(err, prompts.ErrConfig):
		return Failure{Class: ClassConfiguration, Message: msgConfiguration}
	default:
		return Failure{Class: ClassUnclassified, Message: msgUnclassified}
	}
}
