package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited means the service asked us to slow down; the job may be retried later
	ErrRateLimited = errors.New("transform service rate limited")
	// ErrQuotaExceeded means the account quota is spent; retrying will not help
	ErrQuotaExceeded = errors.New("transform service quota exceeded")
)

// ServiceError is any other failure reported by the service
type ServiceError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s service error (status %d): %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s service error: %s", e.Provider, e.Message)
}

// QuotaError carries the provider message so it can be shown to the submitter verbatim
type QuotaError struct {
	Provider string
	Message  string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota exceeded: %s", e.Provider, e.Message)
}

func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
