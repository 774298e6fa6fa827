package store

import (
	"errors"
	"fmt"
)

// ErrMissingTitle is returned when a document is created without a title
var ErrMissingTitle = errors.New("document title is required")

// APIError is a non-2xx response from the document service
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion: status %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("notion: status %d: %s", e.Status, e.Message)
}
